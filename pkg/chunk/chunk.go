package chunk

import "fmt"

// Span is a half-open range [Start, End) of a sequence, numbered from 1.
type Span struct {
	Part  int
	Start int
	End   int
}

// Len returns the number of records in the span.
func (s Span) Len() int { return s.End - s.Start }

// First reports whether s is the first span of its plan.
func (s Span) First() bool { return s.Part == 1 }

// Plan is the partition of a sequence of Total records into spans of at most
// Size records.
type Plan struct {
	Total int
	Size  int
	Spans []Span
}

// NewPlan partitions total records into consecutive spans of at most size
// records; only the last span may be shorter. A non-positive size yields a
// single span. An empty sequence has no spans.
func NewPlan(total, size int) Plan {
	if total <= 0 {
		return Plan{Total: 0, Size: size}
	}
	if size <= 0 || size > total {
		size = total
	}

	spans := make([]Span, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		spans = append(spans, Span{Part: len(spans) + 1, Start: start, End: end})
	}
	return Plan{Total: total, Size: size, Spans: spans}
}

// Parts returns the number of spans.
func (p Plan) Parts() int { return len(p.Spans) }

// Each calls fn for every span in order, stopping at the first error.
func (p Plan) Each(fn func(Span) error) error {
	for _, span := range p.Spans {
		if err := fn(span); err != nil {
			return err
		}
	}
	return nil
}

// Apply walks records through plan, handing emit each span's slice. records
// must hold exactly plan.Total elements.
func Apply[T any](plan Plan, records []T, emit func(part int, records []T, first bool) error) error {
	if len(records) != plan.Total {
		return fmt.Errorf("chunk: plan covers %d records, got %d", plan.Total, len(records))
	}
	return plan.Each(func(span Span) error {
		return emit(span.Part, records[span.Start:span.End], span.First())
	})
}

// Write partitions records into chunks of at most size records and calls
// emit for each chunk in order, stopping at the first error.
func Write[T any](records []T, size int, emit func(part int, records []T, first bool) error) error {
	return Apply(NewPlan(len(records), size), records, emit)
}

// PartWidth returns the zero-padded width used to number parts: two digits,
// or more when parts exceeds 99.
func PartWidth(parts int) int {
	width := 2
	for limit := 100; parts >= limit; limit *= 10 {
		width++
	}
	return width
}

// PartName formats a part number with the given width.
func PartName(part, width int) string {
	return fmt.Sprintf("%0*d", width, part)
}
