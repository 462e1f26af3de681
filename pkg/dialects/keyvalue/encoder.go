package keyvalue

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/goliatone/go-seedgen/pkg/dialect"
	"github.com/goliatone/go-seedgen/pkg/record"
	"github.com/goliatone/go-seedgen/pkg/template"
)

// Name is the registry name of the key-value encoder.
const Name = "redis"

// ErrUnkeyed is returned when encoding a kind that has no identity column and
// therefore no key.
var ErrUnkeyed = errors.New("keyvalue: kind has no key")

// ItemsNote documents the nested line item field in order headers.
const ItemsNote = "items is a JSON string containing the order items array"

//go:embed templates/*.tpl
var defaultTemplates embed.FS

// TemplatesFS returns the embedded header and directive templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		return defaultTemplates
	}
	return sub
}

// Option configures the encoder.
type Option func(*Encoder)

// WithTemplates replaces the embedded templates. The filesystem must provide
// header.redis.tpl.
func WithTemplates(files fs.FS) Option {
	return func(e *Encoder) {
		e.templates = files
	}
}

// WithTemplateDir loads templates from a directory, falling back to the
// embedded defaults for files it does not contain.
func WithTemplateDir(dir string) Option {
	return func(e *Encoder) {
		e.templateDir = dir
	}
}

// WithClearKeyspace makes the first artifact of each kind delete every key
// under the kind's prefix before loading. Disabled by default.
func WithClearKeyspace(enabled bool) Option {
	return func(e *Encoder) {
		e.clear = enabled
	}
}

// WithNotes sets extra header comment lines for a kind.
func WithNotes(kind record.Kind, notes ...string) Option {
	return func(e *Encoder) {
		e.notes[kind.Name] = notes
	}
}

// WithSchema declares the hash fields listed in the header of a kind.
func WithSchema(kind record.Kind, fields ...string) Option {
	return func(e *Encoder) {
		e.schemas[kind.Name] = fields
	}
}

// Encoder implements dialect.Encoder.
type Encoder struct {
	engine      *template.Engine
	templates   fs.FS
	templateDir string
	clear       bool
	notes       map[string][]string
	schemas     map[string][]string
}

var _ dialect.Encoder = (*Encoder)(nil)

// New constructs the encoder. Headers describe the hash layout of the
// generated kinds unless overridden with WithSchema.
func New(options ...Option) (*Encoder, error) {
	e := &Encoder{
		notes: map[string][]string{
			record.Orders.Name: {ItemsNote},
		},
		schemas: map[string][]string{
			record.Users.Name:    {"name", "email"},
			record.Products.Name: {"name", "sku", "price"},
			record.Stocks.Name:   {"product_name", "product_sku", "product_unit_price", "quantity"},
			record.Orders.Name:   {"user_id", "total_amount", "created_at", record.ItemsField},
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}

	if e.templates == nil {
		e.templates = TemplatesFS()
	}

	engine, err := template.New(template.WithFS(e.templates), template.WithBaseDir(e.templateDir))
	if err != nil {
		return nil, fmt.Errorf("keyvalue: %w", err)
	}
	e.engine = engine
	return e, nil
}

// Name implements dialect.Encoder.
func (e *Encoder) Name() string { return Name }

// Extension implements dialect.Encoder.
func (e *Encoder) Extension() string { return ".redis" }

// Header implements dialect.Encoder.
func (e *Encoder) Header(w io.Writer, kind record.Kind, part int) error {
	notes := e.notes[kind.Name]
	if notes == nil {
		notes = []string{}
	}
	_, err := e.engine.Render("header.redis", map[string]any{
		"title":  kind.Title,
		"key":    kind.Name,
		"schema": "{" + strings.Join(e.schemas[kind.Name], ", ") + "}",
		"notes":  notes,
		"part":   part,
		"first":  part <= 1,
		"clear":  e.clear,
	}, w)
	if err != nil {
		return fmt.Errorf("keyvalue: header %s: %w", kind.Name, err)
	}
	return nil
}

// Encode implements dialect.Encoder.
func (e *Encoder) Encode(w io.Writer, kind record.Kind, records []record.Record) error {
	if len(records) == 0 {
		return nil
	}
	if kind.IDColumn == "" {
		return fmt.Errorf("%w: %s", ErrUnkeyed, kind.Name)
	}

	var b strings.Builder
	for _, rec := range records {
		b.Reset()
		b.WriteString("HSET ")
		b.WriteString(Key(kind, rec.ID))
		for _, field := range rec.Fields {
			b.WriteByte(' ')
			b.WriteString(field.Name)
			b.WriteByte(' ')
			b.WriteString(record.Format(field.Value))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Key returns the key a record of kind with the given id is stored under.
func Key(kind record.Kind, id int) string {
	return kind.Name + ":" + strconv.Itoa(id)
}
