package main

import (
	"os"
	"strings"

	"qbank/internal/cli"
)

// showCommandFor maps a pasted record id to the command that shows it.
func showCommandFor(s string) []string {
	s = strings.TrimSpace(s)
	for _, p := range []struct {
		prefix string
		cmd    []string
	}{
		{"proj-", []string{"projects", "show"}},
		{"qb-", []string{"banks", "show"}},
		{"q-", []string{"questions", "show"}},
	} {
		if strings.HasPrefix(s, p.prefix) && len(s) > len(p.prefix) {
			return p.cmd
		}
	}
	return nil
}

// rewriteDirectLookupArgs makes `qbank <id>` work like `qbank <kind> show <id>`.
// Cobra treats the first positional token as a subcommand, so argv is
// rewritten before parsing. Persistent flags may precede the id.
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--server":    true,
		"--user":      true,
		"--format":    true,
		"--log-level": true,
	}

	insert := func(i int, show []string) []string {
		out := make([]string, 0, len(argv)+len(show))
		out = append(out, argv[:i]...)
		out = append(out, show...)
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) {
				if show := showCommandFor(argv[i+1]); show != nil {
					return insert(i+1, show)
				}
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown flags are skipped without consuming a value so an id is
			// never swallowed.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if show := showCommandFor(a); show != nil {
			return insert(i, show)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
