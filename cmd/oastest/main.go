package main

import (
	"fmt"
	"os"

	"github.com/erraggy/oastest"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oastest v%s (commit %s, built %s, %s)\n",
			oastest.Version(), oastest.Commit(), oastest.BuildTime(), oastest.GoVersion())
	case "help", "-h", "--help":
		printUsage()
	case "endpoints":
		if err := handleEndpoints(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := handleCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "scaffold":
		if err := handleScaffold(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// knownCommands lists every command the dispatcher accepts, for typo
// suggestions.
var knownCommands = []string{"endpoints", "check", "scaffold", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough to be a plausible typo.
func suggestCommand(input string) string {
	const maxDistance = 2
	best := ""
	bestDistance := maxDistance + 1
	for _, cmd := range knownCommands {
		if d := editDistance(input, cmd); d < bestDistance {
			best = cmd
			bestDistance = d
		}
	}
	if bestDistance > maxDistance {
		return ""
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oastest - test HTTP responses against their OpenAPI document

Usage:
  oastest <command> [options]

Commands:
  endpoints   List the operations a specification documents
  check       Compare a recorded HTTP response against the specification
  scaffold    Generate a contract test file for every documented operation
  mcp         Run the MCP server on stdio
  version     Show version information
  help        Show this help message

Examples:
  oastest endpoints openapi.yaml
  oastest endpoints --format json openapi.yaml | jq '.[].path'
  oastest check -method GET -path /pets/42 -status 200 -body response.json openapi.yaml
  oastest scaffold -o ./apitest -pkg apitest openapi.yaml
  oastest mcp

Run 'oastest <command> --help' for more information on a command.`)
}
