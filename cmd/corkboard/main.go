package main

import (
	"os"
	"strings"

	"corkboard-cli/internal/cli"
)

var subcommands = map[string]bool{
	"projects":   true,
	"board":      true,
	"columns":    true,
	"cards":      true,
	"labels":     true,
	"comments":   true,
	"config":     true,
	"help":       true,
	"completion": true,
}

// rewriteDirectBoardArgs lets `corkboard <board-id>` open the board TUI
// directly, as shorthand for `corkboard --board <board-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`corkboard --server ...
// <board-id>`), so the first positional token is located, not just argv[1].
func rewriteDirectBoardArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--server": true,
		"--dir":    true,
		"--board":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip the flag's value
				continue
			}
			continue
		}

		// First positional token. Known subcommands parse as usual.
		if subcommands[a] {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "--board")
		out = append(out, argv[i:]...)
		return out
	}
	return argv
}

func main() {
	os.Args = rewriteDirectBoardArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
