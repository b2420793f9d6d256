package scoring

import "github.com/equitylens/backend/internal/contracts"

// Label thresholds over the 1-10 composite score.
const (
	strongBuyAbove = 8.0
	buyAbove       = 6.5
	holdAbove      = 4.0
	sellAbove      = 2.5
)

// Label maps a composite score onto the five-step rating scale.
func Label(composite float64) string {
	switch {
	case composite >= strongBuyAbove:
		return contracts.LabelStrongBuy
	case composite >= buyAbove:
		return contracts.LabelBuy
	case composite >= holdAbove:
		return contracts.LabelHold
	case composite >= sellAbove:
		return contracts.LabelSell
	default:
		return contracts.LabelStrongSell
	}
}
