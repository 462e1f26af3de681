package testsupport

import (
	"strings"
	"testing"

	"github.com/goliatone/go-seedgen/pkg/record"
)

// Insert is a parsed bulk INSERT statement. Row values are kept as written:
// strings stay quoted and escaped.
type Insert struct {
	Table   string
	Columns []string
	Rows    [][]string
}

// ParseInsert extracts the single INSERT statement of a relational script.
// Comment and directive lines before it are skipped. A script without an
// INSERT yields the zero Insert.
func ParseInsert(t *testing.T, script string) Insert {
	t.Helper()

	idx := strings.Index(script, "INSERT INTO ")
	if idx < 0 {
		return Insert{}
	}
	body := script[idx+len("INSERT INTO "):]

	open := strings.IndexByte(body, '(')
	closeIdx := strings.Index(body, ") VALUES\n")
	if open < 0 || closeIdx < 0 {
		t.Fatalf("malformed INSERT header in:\n%s", script)
	}
	out := Insert{
		Table:   strings.TrimSpace(body[:open]),
		Columns: strings.Split(body[open+1:closeIdx], ", "),
	}

	rows := body[closeIdx+len(") VALUES\n"):]
	if !strings.HasSuffix(rows, ";\n") {
		t.Fatalf("INSERT is not terminated by ';\\n':\n%s", script)
	}
	rows = strings.TrimSuffix(rows, ";\n")
	for _, line := range strings.Split(rows, ",\n") {
		if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
			t.Fatalf("malformed tuple %q", line)
		}
		out.Rows = append(out.Rows, splitQuoted(line[1:len(line)-1], ", "))
	}
	return out
}

// Column returns the index of a column, failing the test when absent.
func (i Insert) Column(t *testing.T, name string) int {
	t.Helper()
	for idx, col := range i.Columns {
		if col == name {
			return idx
		}
	}
	t.Fatalf("column %q not found in %v", name, i.Columns)
	return -1
}

// Hash is one parsed HSET command.
type Hash struct {
	Key    string
	Fields map[string]string
	Order  []string
}

// ParseHSET parses every HSET line of a key-value script. Comment and blank
// lines are skipped. Field values are kept as written.
func ParseHSET(t *testing.T, script string) []Hash {
	t.Helper()

	var out []Hash
	for _, line := range strings.Split(script, "\n") {
		if !strings.HasPrefix(line, "HSET ") {
			continue
		}
		tokens := splitQuoted(strings.TrimPrefix(line, "HSET "), " ")
		if len(tokens)%2 != 1 {
			t.Fatalf("odd field/value count in %q", line)
		}
		h := Hash{Key: tokens[0], Fields: make(map[string]string, len(tokens)/2)}
		for i := 1; i < len(tokens); i += 2 {
			h.Fields[tokens[i]] = tokens[i+1]
			h.Order = append(h.Order, tokens[i])
		}
		out = append(out, h)
	}
	return out
}

// Unquote strips the surrounding single quotes of a value and reverses the
// escaping applied to string data. Unquoted values are returned unchanged.
func Unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return record.Unescape(value[1 : len(value)-1])
	}
	return value
}

// splitQuoted splits s on sep, ignoring separators inside single quoted
// strings. A backslash inside quotes escapes the next byte.
func splitQuoted(s, sep string) []string {
	var (
		out     []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch {
		case inQuote && s[i] == '\\':
			i++
		case s[i] == '\'':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], sep):
			out = append(out, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(out, s[start:])
}
