// Package samples registers the demonstration suites linked into the
// moonunit binary.
//
// Calculator and Inventory pass. Showcase fails on purpose, once per kind of
// outcome, so that a report shows every element of the format.
package samples

import "github.com/roach88/moonunit/internal/suite"

func init() {
	for _, s := range All() {
		suite.Register(s)
	}
}

// All returns the sample suites in registration order.
func All() []suite.Suite {
	return []suite.Suite{Calculator(), Inventory(), Showcase()}
}
