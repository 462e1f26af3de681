// Package chunk partitions ordered record sequences into numbered, bounded
// spans. A single Plan can drive several artifacts so that part N of each
// holds exactly the same records.
package chunk
