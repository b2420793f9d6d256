package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [ticker...]",
	Short: "Score one or more tickers",
	Long: `Run the full scoring pipeline for the given tickers and print the
results. With no arguments the configured universe (SCORING_UNIVERSE)
is scored.

Example:
  go run ./cmd/lens score AAPL
  go run ./cmd/lens score AAPL MSFT --json
  go run ./cmd/lens score`,
	RunE: runScore,
}

var (
	scoreJSON    bool
	scoreTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	// Flags
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print full results as JSON")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 5*time.Minute, "overall timeout")
}

func runScore(cmd *cobra.Command, args []string) error {
	st, err := buildStack()
	if err != nil {
		return err
	}
	defer st.close()

	tickers := make([]string, 0, len(args))
	for _, arg := range args {
		tickers = append(tickers, strings.ToUpper(strings.TrimSpace(arg)))
	}
	if len(tickers) == 0 {
		tickers = st.cfg.Scoring.Universe
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers given and SCORING_UNIVERSE is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	results := st.pipeline.ScoreUniverse(ctx, tickers, st.cfg.Scoring.Workers)

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	var failed int
	fmt.Printf("%-10s %-6s %-12s\n", "TICKER", "SCORE", "LABEL")
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("%-10s %-6s %-12s (%v)\n", res.Ticker, "-", "error", res.Err)
			continue
		}
		fmt.Printf("%-10s %-6.1f %-12s\n",
			res.Ticker, res.Result.Factors.CompositeScore, res.Result.Label)
	}

	if failed == len(results) {
		return fmt.Errorf("all %d tickers failed to score", failed)
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d tickers failed\n", failed, len(results))
	}
	return nil
}
