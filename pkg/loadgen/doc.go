// Package loadgen drives the store service with a mix of order writes and
// report reads whose ids stay inside a generated dataset.
//
// A Runner fans requests out over a fixed pool of workers, records per
// endpoint counters and latency histograms in its own prometheus registry and
// returns a Summary with latency percentiles once every request finished.
package loadgen
