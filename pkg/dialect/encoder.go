package dialect

import (
	"io"

	"github.com/goliatone/go-seedgen/pkg/record"
)

// Encoder converts records of one kind into a textual store script.
//
// Header writes the comment block that opens an artifact. part numbers the
// artifact within its kind starting at 1; one-time content such as
// destructive cleanup directives is only written for part 1.
//
// Encode writes the body for a batch of records. An empty batch writes
// nothing.
type Encoder interface {
	Name() string
	Extension() string
	Header(w io.Writer, kind record.Kind, part int) error
	Encode(w io.Writer, kind record.Kind, records []record.Record) error
}

// Directives is implemented by encoders that wrap a bulk load with opaque
// setup and teardown blocks.
type Directives interface {
	PreLoad(w io.Writer, kinds []record.Kind) error
	PostLoad(w io.Writer, kinds []record.Kind) error
}
