package chunk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPlan(t *testing.T) {
	cases := []struct {
		name  string
		total int
		size  int
		want  []Span
	}{
		{name: "empty", total: 0, size: 10, want: nil},
		{name: "exact", total: 4, size: 2, want: []Span{{1, 0, 2}, {2, 2, 4}}},
		{name: "remainder", total: 5, size: 2, want: []Span{{1, 0, 2}, {2, 2, 4}, {3, 4, 5}}},
		{name: "larger size", total: 3, size: 100, want: []Span{{1, 0, 3}}},
		{name: "non positive size", total: 3, size: 0, want: []Span{{1, 0, 3}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := NewPlan(tc.total, tc.size)
			var got []Span
			if len(plan.Spans) > 0 {
				got = plan.Spans
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteEmitsChunksInOrder(t *testing.T) {
	records := []int{1, 2, 3, 4, 5}

	type call struct {
		Part    int
		Records []int
		First   bool
	}
	var calls []call
	err := Write(records, 2, func(part int, chunk []int, first bool) error {
		calls = append(calls, call{part, append([]int(nil), chunk...), first})
		return nil
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	want := []call{
		{1, []int{1, 2}, true},
		{2, []int{3, 4}, false},
		{3, []int{5}, false},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	seen := 0
	err := Write([]int{1, 2, 3}, 1, func(part int, _ []int, _ bool) error {
		seen++
		if part == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if seen != 2 {
		t.Fatalf("expected emit to stop after part 2, saw %d calls", seen)
	}
}

func TestApplySharesBoundaries(t *testing.T) {
	ids := []int{10, 11, 12, 13, 14}
	labels := []string{"a", "b", "c", "d", "e"}
	plan := NewPlan(len(ids), 2)

	idParts := map[int][]int{}
	labelParts := map[int][]string{}
	if err := Apply(plan, ids, func(part int, chunk []int, _ bool) error {
		idParts[part] = chunk
		return nil
	}); err != nil {
		t.Fatalf("apply ids: %v", err)
	}
	if err := Apply(plan, labels, func(part int, chunk []string, _ bool) error {
		labelParts[part] = chunk
		return nil
	}); err != nil {
		t.Fatalf("apply labels: %v", err)
	}

	for part := 1; part <= plan.Parts(); part++ {
		if len(idParts[part]) != len(labelParts[part]) {
			t.Fatalf("part %d sizes differ: %d vs %d", part, len(idParts[part]), len(labelParts[part]))
		}
	}
}

func TestApplyRejectsMismatchedLength(t *testing.T) {
	plan := NewPlan(3, 2)
	err := Apply(plan, []int{1, 2}, func(int, []int, bool) error { return nil })
	if err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestPartWidth(t *testing.T) {
	cases := map[int]int{0: 2, 1: 2, 99: 2, 100: 3, 999: 3, 1000: 4}
	for parts, want := range cases {
		if got := PartWidth(parts); got != want {
			t.Fatalf("PartWidth(%d) = %d, want %d", parts, got, want)
		}
	}
	if got := PartName(3, 2); got != "03" {
		t.Fatalf("unexpected part name %q", got)
	}
}
