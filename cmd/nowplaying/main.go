// Nowplaying drives a 16x2 character LCD that shows the current track,
// a clock and a debug page, with animated transitions between them.
//
// Usage:
//
//	nowplaying run      [flags]   hardware display, GPIO buttons
//	nowplaying sim      [flags]   terminal simulator, keyboard buttons
//	nowplaying snapshot [flags]   headless run that writes PNG frames
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	root := buildCLI()
	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
