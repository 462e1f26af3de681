// Package orchestrator runs a generation job end to end: it validates the
// configuration, synthesizes users, products and orders, and writes them
// through the relational and key-value encoders into their sinks, chunking
// every order artifact with one shared plan.
package orchestrator
