package samples

import (
	"errors"
	"strconv"
	"time"

	"github.com/roach88/moonunit/internal/assert"
	"github.com/roach88/moonunit/internal/suite"
)

type showcase struct{}

// Showcase returns a suite in which every test but one fails, each in a
// different way.
func Showcase() suite.Suite {
	return suite.Define[showcase]("Showcase", nil,
		suite.Test("Passes", func(*showcase) {
			assert.Equal("moon", "moon")
		}),
		suite.Test("NotEqual", func(*showcase) {
			assert.Equal(42, 41, "the answer drifted")
		}),
		suite.Test("OutOfRange", func(*showcase) {
			assert.Between(11, 1, 10)
		}),
		suite.Test("MissingElement", func(*showcase) {
			assert.Contains("neptune", []string{"mercury", "venus", "earth"})
		}),
		suite.Test("WrongError", func(*showcase) {
			assert.Throws[*strconv.NumError](func() error {
				return errors.New("not a number error")
			})
		}),
		suite.Test("ExplicitFail", func(*showcase) {
			assert.Fail("not written yet")
		}),
		suite.Test("Slow", func(*showcase) {
			time.Sleep(30 * time.Millisecond)
		}, suite.Timeout(10)),
		suite.TestErr("ReturnsError", func(*showcase) error {
			_, err := strconv.Atoi("twelve")
			return err
		}),
		suite.Test("Panics", func(*showcase) {
			var m map[string]int
			m["boom"]++
		}),
		suite.Test("MissingCollection", func(*showcase) {
			assert.Empty(nil)
		}),
		suite.Test("Skipped", func(*showcase) {
			panic("never runs")
		}, suite.Skip("kept as an example of a skip")),
	)
}
