package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
)

// ExampleClient_Get demonstrates basic HTTP client usage.
func ExampleClient_Get() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	client := httputil.New(cfg, log)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://api.example.com/data")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// ExampleClient_WithRetry demonstrates retry configuration.
func ExampleClient_WithRetry() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	// Retry up to 5 times, starting with a 500ms delay
	client := httputil.New(cfg, log).WithRetry(5, 500*time.Millisecond)

	var bars []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	}
	if err := client.GetJSON(context.Background(), "https://api.example.com/bars/AAPL", &bars); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Fetched %d bars\n", len(bars))
}
