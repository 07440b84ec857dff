package main

import (
	"os"

	"github.com/quantroute/ibtrader/cmd/ibtrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
