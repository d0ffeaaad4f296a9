package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/refparser"
	"github.com/erraggy/refparser/cmd/refparser/commands"
	"github.com/erraggy/refparser/internal/mcpserver"
)

// commandNames lists the top-level commands for typo suggestions.
var commandNames = []string{"resolve", "bundle", "dereference", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("refparser v%s\n", refparser.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "resolve":
		err = commands.HandleResolve(os.Args[2:])
	case "bundle":
		err = commands.HandleBundle(os.Args[2:])
	case "dereference", "deref":
		err = commands.HandleDereference(os.Args[2:])
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = mcpserver.Run(ctx)
		stop()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`refparser - JSON Reference ($ref) resolution tools

Usage:
  refparser <command> [options]

Commands:
  resolve      Load a document and everything it references; report the reference graph
  bundle       Embed external documents so the result is self-contained
  dereference  Replace every $ref with the value it points to
  mcp          Run the MCP server on stdio
  version      Show version information
  help         Show this help message

Examples:
  refparser resolve openapi.yaml
  refparser bundle -o bundled.json openapi.yaml
  refparser dereference --circular ignore --format yaml schema.json
  refparser dereference --resolve-http-refs https://example.com/schemas/root.json

Run 'refparser <command> --help' for more information on a command.`)
}
