package cli

import (
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/roach88/moonunit/internal/engine"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand returns a shell command that runs only the given tests, or ""
// when there are none.
func rerunCommand(failures []engine.Entry, configPath string) string {
	if len(failures) == 0 {
		return ""
	}
	var b commandBuilder
	b.add("moonunit", "run")
	if configPath != "" {
		b.add("--config", configPath)
	}
	seen := make(map[engine.TestID]bool)
	for _, e := range failures {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		b.add("--run", "^"+regexp.QuoteMeta(e.ID.String())+"$")
	}
	return b.String()
}
