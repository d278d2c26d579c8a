package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
)

func TestRerunCommand(t *testing.T) {
	failed := func(suite, method string) engine.Entry {
		return engine.Entry{
			ID:      engine.TestID{Suite: suite, Method: method},
			Outcome: outcome.Outcome{Status: outcome.StatusFailed},
		}
	}

	tests := []struct {
		name       string
		failures   []engine.Entry
		configPath string
		want       string
	}{
		{
			name: "no failures",
			want: "",
		},
		{
			name:     "anchors each test",
			failures: []engine.Entry{failed("Cart", "Discount")},
			want:     "moonunit run --run '^Cart/Discount$'",
		},
		{
			name:     "dedupes repeated tests",
			failures: []engine.Entry{failed("Cart", "Discount"), failed("Cart", "Discount"), failed("Order", "Slow")},
			want:     "moonunit run --run '^Cart/Discount$' --run '^Order/Slow$'",
		},
		{
			name:     "quotes regexp metacharacters",
			failures: []engine.Entry{failed("Math", "Pow.2")},
			want:     `moonunit run --run '^Math/Pow\.2$'`,
		},
		{
			name:       "quotes config path",
			failures:   []engine.Entry{failed("Cart", "Discount")},
			configPath: "my config.yaml",
			want:       "moonunit run --config 'my config.yaml' --run '^Cart/Discount$'",
		},
		{
			name:     "escapes single quotes",
			failures: []engine.Entry{failed("Odd", "It's")},
			want:     `moonunit run --run '^Odd/It'"'"'s$'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rerunCommand(tt.failures, tt.configPath))
		})
	}
}
