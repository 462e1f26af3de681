package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-seedgen/pkg/config"
)

type fakeDriver struct {
	inputs   []string
	confirms []bool
	asked    []string
	info     []string
	err      error
}

func (f *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	f.asked = append(f.asked, cfg.Message)
	if f.err != nil {
		return "", f.err
	}
	if len(f.inputs) == 0 {
		return cfg.Default, nil
	}
	answer := f.inputs[0]
	f.inputs = f.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (f *fakeDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	f.asked = append(f.asked, cfg.Message)
	if f.err != nil {
		return false, f.err
	}
	if len(f.confirms) == 0 {
		return cfg.Default, nil
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func (f *fakeDriver) Info(_ context.Context, msg string) error {
	f.info = append(f.info, msg)
	return nil
}

func TestAskCounts(t *testing.T) {
	driver := &fakeDriver{inputs: []string{"3", "2", "5", "2", "42"}}
	base := config.Default()

	got, err := AskCounts(context.Background(), driver, base)
	if err != nil {
		t.Fatalf("ask counts: %v", err)
	}
	if got.Users != 3 || got.Products != 2 || got.Orders != 5 || got.ChunkSize != 2 || got.Seed != 42 {
		t.Fatalf("unexpected answers applied: %+v", got)
	}
	if base.Users != config.Default().Users {
		t.Fatalf("expected base config to stay untouched")
	}
	want := []string{"Users", "Products", "Orders", "Chunk size", "Seed"}
	if diff := cmp.Diff(want, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestAskCountsDefaults(t *testing.T) {
	base := config.Default()
	got, err := AskCounts(context.Background(), &fakeDriver{}, base)
	if err != nil {
		t.Fatalf("ask counts: %v", err)
	}
	if got.Users != base.Users || got.Orders != base.Orders || got.ChunkSize != base.ChunkSize {
		t.Fatalf("expected defaults to be kept, got %+v", got)
	}
}

func TestAskCountsRejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		inputs []string
	}{
		{name: "not a number", inputs: []string{"many"}},
		{name: "negative", inputs: []string{"-1"}},
		{name: "zero chunk", inputs: []string{"1", "1", "1", "0"}},
		{name: "bad seed", inputs: []string{"1", "1", "1", "1", "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := AskCounts(context.Background(), &fakeDriver{inputs: tc.inputs}, config.Default()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestAskCountsAborted(t *testing.T) {
	_, err := AskCounts(context.Background(), &fakeDriver{err: ErrAborted}, config.Default())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestParseCountAcceptsUnderscores(t *testing.T) {
	got, err := parseCount("80_000", 0)
	if err != nil || got != 80000 {
		t.Fatalf("parseCount = %d, %v", got, err)
	}
}

func TestConfirmOverwrite(t *testing.T) {
	driver := &fakeDriver{}
	ok, err := ConfirmOverwrite(context.Background(), driver, "out", nil)
	if err != nil || !ok {
		t.Fatalf("expected empty directory to pass without asking, got %v, %v", ok, err)
	}
	if len(driver.asked) != 0 {
		t.Fatalf("expected no prompt, got %v", driver.asked)
	}

	existing := []string{"a.sql", "b.sql", "c.sql", "d.sql", "e.sql", "f.sql", "g.sql"}
	driver = &fakeDriver{confirms: []bool{true}}
	ok, err = ConfirmOverwrite(context.Background(), driver, "out", existing)
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v, %v", ok, err)
	}
	if len(driver.info) != 1 || !strings.Contains(driver.info[0], "... 2 more") {
		t.Fatalf("unexpected listing %v", driver.info)
	}

	driver = &fakeDriver{}
	ok, err = ConfirmOverwrite(context.Background(), driver, "out", existing[:1])
	if err != nil || ok {
		t.Fatalf("expected default to decline, got %v, %v", ok, err)
	}
}
