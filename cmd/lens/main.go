package main

import (
	"os"

	"github.com/equitylens/backend/cmd/lens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
