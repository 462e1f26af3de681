// Package reportcache keeps the highest-spenders and best-sellers reports
// warm in a key-value cache: after an initial delay it recomputes both
// reports and stores them as JSON, then repeats on a fixed interval.
package reportcache
