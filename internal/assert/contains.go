package assert

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/moonunit/internal/outcome"
)

// StringComparison selects how substrings are matched by ContainsString and
// DoesNotContainString.
type StringComparison int

const (
	// Culture matches after Unicode NFC normalisation of both strings, so
	// precomposed and decomposed forms of the same text match.
	Culture StringComparison = iota
	// CultureIgnoreCase is Culture with Unicode case folding.
	CultureIgnoreCase
	// Ordinal matches bytes exactly.
	Ordinal
	// OrdinalIgnoreCase matches after case folding without normalisation.
	OrdinalIgnoreCase
)

func (c StringComparison) String() string {
	switch c {
	case Culture:
		return "Culture"
	case CultureIgnoreCase:
		return "CultureIgnoreCase"
	case Ordinal:
		return "Ordinal"
	case OrdinalIgnoreCase:
		return "OrdinalIgnoreCase"
	default:
		return fmt.Sprintf("StringComparison(%d)", int(c))
	}
}

func (c StringComparison) prepare(s string) string {
	switch c {
	case Culture:
		return norm.NFC.String(s)
	case CultureIgnoreCase:
		return cases.Fold().String(norm.NFC.String(s))
	case OrdinalIgnoreCase:
		return cases.Fold().String(s)
	default:
		return s
	}
}

// index reports whether sub occurs in s under the comparison.
func (c StringComparison) index(s, sub string) bool {
	return strings.Contains(c.prepare(s), c.prepare(sub))
}

// Contains fails with KindDoesNotContain unless collection has an element
// equal to expected under DefaultEquality. A nil or empty collection never
// contains anything.
func Contains[T any](expected T, collection []T, message ...string) {
	ContainsFunc(expected, collection, DefaultEquality[T], message...)
}

// ContainsFunc fails with KindDoesNotContain unless collection has an element
// e with eq(expected, e).
func ContainsFunc[T any](expected T, collection []T, eq Equality[T], message ...string) {
	for _, item := range collection {
		if eq(expected, item) {
			return
		}
	}
	raise(outcome.KindDoesNotContain, format(expected), format(collection), "assert.Contains() failed", message)
}

// DoesNotContain fails with KindDoesContain when collection has an element
// equal to expected under DefaultEquality.
func DoesNotContain[T any](expected T, collection []T, message ...string) {
	DoesNotContainFunc(expected, collection, DefaultEquality[T], message...)
}

// DoesNotContainFunc fails with KindDoesContain when collection has an element
// e with eq(expected, e).
func DoesNotContainFunc[T any](expected T, collection []T, eq Equality[T], message ...string) {
	for _, item := range collection {
		if eq(expected, item) {
			raise(outcome.KindDoesContain, format(expected), format(collection), "assert.DoesNotContain() failed", message)
		}
	}
}

// ContainsString fails with KindDoesNotContain unless expected occurs in
// actual under the Culture comparison. Two empty strings always match.
func ContainsString(expected, actual string, message ...string) {
	ContainsStringMode(expected, actual, Culture, message...)
}

// ContainsStringMode is ContainsString with an explicit comparison.
func ContainsStringMode(expected, actual string, mode StringComparison, message ...string) {
	if expected == "" && actual == "" {
		return
	}
	if !mode.index(actual, expected) {
		raise(outcome.KindDoesNotContain, expected, actual, "assert.Contains() failed", message)
	}
}

// DoesNotContainString fails with KindDoesContain when expected occurs in
// actual under the Culture comparison. Two empty strings never fail; an empty
// expected occurs in every non-empty actual.
func DoesNotContainString(expected, actual string, message ...string) {
	DoesNotContainStringMode(expected, actual, Culture, message...)
}

// DoesNotContainStringMode is DoesNotContainString with an explicit comparison.
func DoesNotContainStringMode(expected, actual string, mode StringComparison, message ...string) {
	if expected == "" && actual == "" {
		return
	}
	if mode.index(actual, expected) {
		raise(outcome.KindDoesContain, expected, actual, "assert.DoesNotContain() failed", message)
	}
}
