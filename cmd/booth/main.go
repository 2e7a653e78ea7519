// Command booth runs the ticket counter in the terminal against an
// in-process ledger.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/cinema-ticket-ledger/internal/booth"
	"github.com/iliyamo/cinema-ticket-ledger/internal/config"
	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
)

const appName = "booth"

var version = "dev"

func printUsage(out *os.File) {
	fmt.Fprintf(out, "Usage: %s [--version]\n", appName)
}

// handleArgs reports whether the booth should start.
func handleArgs(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			printUsage(os.Stdout)
			return false
		case "-v", "--version", "version":
			fmt.Printf("%s %s\n", appName, version)
			return false
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", arg)
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}
	return true
}

func main() {
	if !handleArgs(os.Args[1:]) {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l := ledger.New(cfg.LedgerOptions()...)
	if cfg.SeedOnStart {
		l.Seed(ledger.DefaultShowtimes)
	}

	m, err := tea.NewProgram(booth.New(l), tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// the alt screen is gone by now; repeat the farewell on the normal one
	fmt.Print(m.View())
}
