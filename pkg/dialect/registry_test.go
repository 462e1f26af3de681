package dialect

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-seedgen/pkg/record"
)

type stubEncoder struct{ name, ext string }

func (s stubEncoder) Name() string      { return s.name }
func (s stubEncoder) Extension() string { return s.ext }
func (s stubEncoder) Header(io.Writer, record.Kind, int) error {
	return nil
}
func (s stubEncoder) Encode(io.Writer, record.Kind, []record.Record) error {
	return nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubEncoder{name: "sql", ext: ".sql"})
	reg.MustRegister(stubEncoder{name: "redis", ext: ".redis"})

	enc, err := reg.Get("redis")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if enc.Name() != "redis" {
		t.Fatalf("unexpected encoder %q", enc.Name())
	}

	_, err = reg.Get("csv")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "registered: redis, sql") {
		t.Fatalf("expected registered names in error, got %v", err)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubEncoder{name: "sql", ext: ".sql"})

	cases := []struct {
		name    string
		encoder Encoder
	}{
		{name: "nil encoder", encoder: nil},
		{name: "empty name", encoder: stubEncoder{ext: ".txt"}},
		{name: "missing dot", encoder: stubEncoder{name: "csv", ext: "csv"}},
		{name: "bare dot", encoder: stubEncoder{name: "csv", ext: "."}},
		{name: "duplicate name", encoder: stubEncoder{name: "sql", ext: ".mysql"}},
		{name: "duplicate extension", encoder: stubEncoder{name: "mysql", ext: ".sql"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := reg.Register(tc.encoder); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
