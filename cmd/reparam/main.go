// Package main provides the reparam CLI: it walks through reparameterized
// Gaussian sampling, printing the shape of every intermediate tensor.
package main

import (
	"os"

	"github.com/born-ml/reparam/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Log.Error("reparam failed", "error", err)
		os.Exit(1)
	}
}
