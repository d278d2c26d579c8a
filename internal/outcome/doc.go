// Package outcome defines the closed set of results a test method can produce.
//
// A test either passes, is skipped, fails an assertion, exceeds its time
// budget, or raises something that is not an assertion failure. Each of these
// is one Outcome value, selected by Status.
//
// # Assertion failures
//
// Assertions raise a *Failure carrying a Kind. The engine recovers the panic,
// finds the *Failure with errors.As and records its pre-formatted fields
// verbatim. Classification is a switch on Kind, never a walk over error types.
//
// # Malformed tests
//
// An *ArgumentError signals a defect in the test itself (for example a nil
// collection passed to an emptiness check). It is deliberately not a *Failure,
// so the engine reports it as an unhandled error.
package outcome
