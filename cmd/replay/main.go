// Command replay steps through a match archive written by corsair.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/replay"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

func main() {
	interval := flag.Duration("interval", replay.DefaultInterval, "Delay between turns during playback")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <archive.parquet>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	rows, err := store.ReadArchive(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load archive: %v\n", err)
		os.Exit(1)
	}

	m := replay.New(rows).WithInterval(*interval)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}
