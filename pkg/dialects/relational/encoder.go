package relational

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/goliatone/go-seedgen/pkg/dialect"
	"github.com/goliatone/go-seedgen/pkg/record"
	"github.com/goliatone/go-seedgen/pkg/template"
)

// Name is the registry name of the relational encoder.
const Name = "sql"

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
// header.sql.tpl, preload.sql.tpl and postload.sql.tpl.
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

// WithClearTables toggles the DELETE directive written at the top of the
// first artifact of each table. Enabled by default.
func WithClearTables(enabled bool) Option {
	return func(e *Encoder) {
		e.clear = enabled
	}
}

// WithChunkedKinds marks kinds whose records are split across several
// artifacts; their first header notes the split.
func WithChunkedKinds(kinds ...record.Kind) Option {
	return func(e *Encoder) {
		for _, kind := range kinds {
			e.chunked[kind.Table] = true
		}
	}
}

// Encoder implements dialect.Encoder and dialect.Directives.
type Encoder struct {
	engine      *template.Engine
	templates   fs.FS
	templateDir string
	clear       bool
	chunked     map[string]bool
}

var (
	_ dialect.Encoder    = (*Encoder)(nil)
	_ dialect.Directives = (*Encoder)(nil)
)

// New constructs the encoder.
func New(options ...Option) (*Encoder, error) {
	e := &Encoder{
		clear:   true,
		chunked: make(map[string]bool),
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
		return nil, fmt.Errorf("relational: %w", err)
	}
	e.engine = engine
	return e, nil
}

// Name implements dialect.Encoder.
func (e *Encoder) Name() string { return Name }

// Extension implements dialect.Encoder.
func (e *Encoder) Extension() string { return ".sql" }

// Header implements dialect.Encoder.
func (e *Encoder) Header(w io.Writer, kind record.Kind, part int) error {
	_, err := e.engine.Render("header.sql", map[string]any{
		"title":   kind.Title,
		"table":   kind.Table,
		"part":    part,
		"first":   part <= 1,
		"clear":   e.clear,
		"chunked": e.chunked[kind.Table],
	}, w)
	if err != nil {
		return fmt.Errorf("relational: header %s: %w", kind.Table, err)
	}
	return nil
}

// Encode implements dialect.Encoder. All records must share the layout of the
// first one.
func (e *Encoder) Encode(w io.Writer, kind record.Kind, records []record.Record) error {
	if len(records) == 0 {
		return nil
	}

	columns := records[0].Columns()
	header := columns
	if kind.IDColumn != "" {
		header = append([]string{kind.IDColumn}, columns...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES\n", kind.Table, strings.Join(header, ", "))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	for i, rec := range records {
		b.Reset()
		if err := writeRow(&b, kind, rec, columns); err != nil {
			return err
		}
		if i < len(records)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString(";\n")
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(b *strings.Builder, kind record.Kind, rec record.Record, columns []string) error {
	b.WriteByte('(')
	sep := ""
	if kind.IDColumn != "" {
		b.WriteString(record.Format(record.Int(rec.ID)))
		sep = ", "
	}
	for _, name := range columns {
		field, ok := rec.Field(name)
		if !ok {
			return fmt.Errorf("relational: %s record %d has no %q field", kind.Table, rec.ID, name)
		}
		b.WriteString(sep)
		b.WriteString(record.Format(field.Value))
		sep = ", "
	}
	b.WriteByte(')')
	return nil
}

// PreLoad implements dialect.Directives: it disables key maintenance and
// integrity checks for the given tables.
func (e *Encoder) PreLoad(w io.Writer, kinds []record.Kind) error {
	return e.directives(w, "preload.sql", kinds)
}

// PostLoad implements dialect.Directives: it restores key maintenance,
// commits, and refreshes table statistics.
func (e *Encoder) PostLoad(w io.Writer, kinds []record.Kind) error {
	return e.directives(w, "postload.sql", kinds)
}

func (e *Encoder) directives(w io.Writer, name string, kinds []record.Kind) error {
	tables := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		tables = append(tables, kind.Table)
	}
	if _, err := e.engine.Render(name, map[string]any{"tables": tables}, w); err != nil {
		return fmt.Errorf("relational: %s: %w", name, err)
	}
	return nil
}
