package main

import (
	"os"

	"treels/internal/errors"
	"treels/internal/log"
)

var version = "dev"

// Entry point for the application
func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Root and walk failures were already reported while the walk
		// ran; configuration and usage errors surface only here.
		switch errors.KindOf(err) {
		case errors.KindRoot, errors.KindWalk:
		default:
			log.Errorf("%v", err)
		}
		os.Exit(1)
	}
}
