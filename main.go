package main

import (
	"fmt"
	"os"

	"pos_core/internal"
)

func main() {
	if err := internal.Run(); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error trying to start server: %w", err))
		os.Exit(1)
	}
}
