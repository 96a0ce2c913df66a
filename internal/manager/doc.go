// Package manager provides the composition root for the event substrate.
//
// A Manager owns one dispatcher, a name-keyed registry of lifecycle
// handlers, an optional event logger, and an optional introspection
// console. Initialize wires and starts the default handler set exactly
// once; Destroy tears everything down and resets the guard so the manager
// can be initialized again.
//
// The default handler set:
//
//   - "ui": tracks the last-known display state (balance, bet, win, spin)
//   - "animation": tracks running animations driven by the spin lifecycle
//   - "stats": wildcard statistics and debug counters
//
// Collaborators receive the manager (or its dispatcher) by reference from
// the process entry point; there is no ambient global instance.
package manager
