package record

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the textual form of timestamps in every dialect.
const TimeLayout = "2006-01-02 15:04:05"

// ValueKind identifies the type held by a Value.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindMoney
	KindText
	KindTime
	KindList
)

// Value is a tagged field value.
type Value struct {
	kind  ValueKind
	i     int64
	money decimal.Decimal
	text  string
	t     time.Time
	list  []Record
}

// Int wraps an integer.
func Int(v int) Value { return Value{kind: KindInt, i: int64(v)} }

// Money wraps a monetary amount.
func Money(v decimal.Decimal) Value { return Value{kind: KindMoney, money: v} }

// Text wraps a string.
func Text(v string) Value { return Value{kind: KindText, text: v} }

// Time wraps a timestamp.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// List wraps nested records, such as the line items of an order.
func List(records ...Record) Value { return Value{kind: KindList, list: records} }

// Kind reports the type held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Records returns the nested records of a list value.
func (v Value) Records() []Record { return v.list }

// Escape rewrites every single quote as a backslash followed by a single
// quote. It is the only escaping rule applied to string data, whatever the
// target dialect.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\'`, "'")
}

// Quote escapes s and wraps it in single quotes.
func Quote(s string) string {
	return "'" + Escape(s) + "'"
}

// Format renders v as it appears in an artifact. Integers are base 10, money
// always carries two decimals, text and timestamps are quoted, and lists are
// rendered as a quoted JSON array of their records' scalar fields.
func Format(v Value) string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindMoney:
		return v.money.StringFixed(2)
	case KindText:
		return Quote(v.text)
	case KindTime:
		return Quote(v.t.Format(TimeLayout))
	case KindList:
		return Quote(string(ListJSON(v.list)))
	default:
		return "''"
	}
}

// ListJSON renders records as a JSON array of objects holding their scalar
// fields in declaration order. Numbers stay unquoted and money keeps two
// decimals.
func ListJSON(records []Record) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteByte('{')
		first := true
		for _, field := range rec.Fields {
			if field.Value.kind == KindList {
				continue
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			writeJSONString(&buf, field.Name)
			buf.WriteString(": ")
			writeJSONScalar(&buf, field.Value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func writeJSONScalar(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindMoney:
		buf.WriteString(v.money.StringFixed(2))
	case KindTime:
		writeJSONString(buf, v.t.Format(TimeLayout))
	default:
		writeJSONString(buf, v.text)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
