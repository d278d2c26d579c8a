// Package suite describes test types to the execution engine.
//
// A Suite is the engine's view of one test type: a name, an ordered list of
// methods with their declarations, and a constructor producing a fresh
// instance per test. The engine never inspects Go types itself; it only reads
// what a Suite reports.
//
// Two providers are included:
//
//   - Define builds a Suite from an explicit registration table of method
//     expressions. Methods appear in the order they are listed.
//   - Reflect discovers exported methods of *T with reflection and looks up
//     their declarations in a caller-supplied map. Methods appear in the
//     order reflection reports them, which is sorted by name.
//
// A method without a Declaration is not a test and is ignored by the engine.
//
// Instances that implement io.Closer are closed after each test.
package suite
