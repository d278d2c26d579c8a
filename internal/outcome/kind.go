package outcome

import "fmt"

// Kind identifies which check produced an assertion failure.
type Kind int

const (
	KindGeneric Kind = iota
	KindNotEqual
	KindEqual
	KindNotBetween
	KindBetween
	KindDoesNotContain
	KindDoesContain
	KindNotFalse
	KindNotTrue
	KindNotNull
	KindNotNullValue
	KindNotMatch
	KindMatchFound
	KindNotNaN
	KindIsNaN
	KindNotOfType
	KindIsOfType
	KindNotSame
	KindIsSame
	KindNotEmpty
	KindIsEmpty
	KindThrowsExpectedTypeMismatch
	KindThrowsDidNotThrow
	KindDoesNotThrowButDid
	KindTimedOut
	KindExplicitFail
)

var kindNames = map[Kind]string{
	KindGeneric:                    "Generic",
	KindNotEqual:                   "NotEqual",
	KindEqual:                      "Equal",
	KindNotBetween:                 "NotBetween",
	KindBetween:                    "Between",
	KindDoesNotContain:             "DoesNotContain",
	KindDoesContain:                "DoesContain",
	KindNotFalse:                   "NotFalse",
	KindNotTrue:                    "NotTrue",
	KindNotNull:                    "NotNull",
	KindNotNullValue:               "NotNullValue",
	KindNotMatch:                   "NotMatch",
	KindMatchFound:                 "MatchFound",
	KindNotNaN:                     "NotNaN",
	KindIsNaN:                      "IsNaN",
	KindNotOfType:                  "NotOfType",
	KindIsOfType:                   "IsOfType",
	KindNotSame:                    "NotSame",
	KindIsSame:                     "IsSame",
	KindNotEmpty:                   "NotEmpty",
	KindIsEmpty:                    "IsEmpty",
	KindThrowsExpectedTypeMismatch: "ThrowsExpectedTypeMismatch",
	KindThrowsDidNotThrow:          "ThrowsDidNotThrow",
	KindDoesNotThrowButDid:         "DoesNotThrowButDid",
	KindTimedOut:                   "TimedOut",
	KindExplicitFail:               "ExplicitFail",
}

// String returns the wire name of the kind, as written to the ErrorType
// element of a report.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindGeneric, false
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindGeneric; k <= KindExplicitFail; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
