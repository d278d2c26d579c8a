// Package engine runs the tests declared by a set of suites.
//
// For every suite, in the order given, the engine lists its methods and runs
// each declared test in method order:
//
//  1. A skipped test is recorded as Skipped without creating an instance.
//  2. Otherwise a fresh instance is created for this test alone.
//  3. The method is invoked and timed with a monotonic clock.
//  4. The instance is closed if it implements io.Closer, on every exit path.
//  5. The result is classified into an outcome.Outcome.
//
// Entries are numbered in discovery order and Result.Entries is always in
// that order, so two runs over the same suites produce the same report.
//
// # Timeouts
//
// In PostHoc mode (the default) the budget is checked after the method
// returns: a method that never returns is never reported. In Preemptive mode
// a budgeted method runs on its own goroutine with a context that is
// cancelled at the deadline; the engine records TimedOut and moves on, and
// the instance is closed whenever the method eventually returns. Both modes
// report the elapsed time and the budget in milliseconds.
//
// # Failures
//
// Nothing a single test does can stop the run. Panics and returned errors are
// classified, constructor failures are reported against the test that needed
// the instance, and a suite whose methods cannot be listed is recorded in
// Result.DiscoveryErrors while the remaining suites still run.
package engine
