// ABOUTME: Entry point for the revline timeline engine CLI and servers
// ABOUTME: Routes to timeline, note, cache, serve, and mcp subcommands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/harperreed/revline/cli"
	"github.com/harperreed/revline/config"
)

const version = "0.1.0"

func main() {
	// Load .env if present (auth token, base URL overrides)
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version and exit")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("revline version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	deps, err := cli.NewDeps(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer deps.Close()

	command := args[0]
	commandArgs := args[1:]

	if err := route(deps, command, commandArgs); err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func route(deps *cli.Deps, command string, args []string) error {
	switch command {
	case "timeline":
		if len(args) == 0 {
			return fmt.Errorf("timeline requires a subcommand (show, refresh)")
		}
		switch args[0] {
		case "show":
			return cli.TimelineShowCommand(deps, args[1:])
		case "refresh":
			return cli.TimelineRefreshCommand(deps, args[1:])
		default:
			return fmt.Errorf("unknown timeline subcommand: %s", args[0])
		}

	case "note":
		if len(args) == 0 {
			return fmt.Errorf("note requires a subcommand (add, update)")
		}
		switch args[0] {
		case "add":
			return cli.NoteAddCommand(deps, args[1:])
		case "update":
			return cli.NoteUpdateCommand(deps, args[1:])
		default:
			return fmt.Errorf("unknown note subcommand: %s", args[0])
		}

	case "delete":
		return cli.EventDeleteCommand(deps, args)

	case "cache":
		if len(args) == 0 || args[0] != "purge" {
			return fmt.Errorf("cache requires the purge subcommand")
		}
		return cli.CachePurgeCommand(deps, args[1:])

	case "serve":
		return cli.ServeCommand(deps, args)

	case "mcp":
		return cli.MCPCommand(deps)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println(`revline - activity timeline engine for revenue operations records

Usage:
  revline timeline show -type <type> -id <id> [-full] [-force] [-grouped]
  revline timeline refresh -type <type> -id <id>
  revline note add -type <type> -id <id> -content <text> [-title <title>]
  revline note update -type <type> -id <id> -note <note-id> [-title] [-content]
  revline delete -type <type> -id <id> -event <event-id> -confirm <event-id>
  revline cache purge [-id <record-id>]
  revline serve [-port 8080]
  revline mcp

Record types: lead, contact, opportunity, company`)
}
