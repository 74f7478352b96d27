package main

import (
	"fmt"
	"os"

	"github.com/hpungsan/docsmith/internal/config"
	"github.com/hpungsan/docsmith/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"process": true, "formats": true, "generate-config": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _                     _ _   _
  | |___  ___ ____ _ _ _(_) |_| |_
  | / _ \/ _/ (_-< ' \ | |  _| ' \
  |_\___/\__|_/__/_|_|_|_|\__|_||_|

  Batch document to markdown converter

  Usage: docsmith process <input> [options]
         docsmith --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	if isCLIMode() {
		app := newCLIApp()
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// MCP server mode over stdio.
	logger := newLogger(true)
	if err := mcp.Run(config.Default(), logger, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
