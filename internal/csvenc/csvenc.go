// Package csvenc renders records as CSV text. A field is quoted only when it
// contains a comma, a double quote, CR or LF; rows are joined by "\n".
package csvenc

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column maps a record key to its human header.
type Column struct {
	Key    string
	Header string
}

// Record exposes field values by column key.
type Record interface {
	Field(key string) (interface{}, bool)
}

// Row is a map-backed Record.
type Row map[string]interface{}

func (r Row) Field(key string) (interface{}, bool) {
	v, ok := r[key]
	return v, ok
}

// Encode renders the header line followed by one line per record. An empty
// record set yields just the header.
func Encode[R Record](records []R, columns []Column) string {
	buf := AppendHeader(nil, columns)
	for _, rec := range records {
		buf = append(buf, '\n')
		buf = AppendRecord(buf, rec, columns)
	}
	return string(buf)
}

// AppendHeader appends the header line, without a line terminator.
func AppendHeader(buf []byte, columns []Column) []byte {
	for i, col := range columns {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = AppendField(buf, col.Header)
	}
	return buf
}

// AppendRecord appends one data line, without a line terminator.
func AppendRecord(buf []byte, rec Record, columns []Column) []byte {
	for i, col := range columns {
		if i > 0 {
			buf = append(buf, ',')
		}
		v, _ := rec.Field(col.Key)
		buf = AppendField(buf, Stringify(v))
	}
	return buf
}

// AppendField appends s, quoting it when required.
func AppendField(buf []byte, s string) []byte {
	if !NeedsQuotes(s) {
		return append(buf, s...)
	}
	buf = append(buf, '"')
	buf = append(buf, strings.ReplaceAll(s, `"`, `""`)...)
	return append(buf, '"')
}

// NeedsQuotes reports whether s contains a comma, double quote, CR or LF.
func NeedsQuotes(s string) bool {
	return strings.ContainsAny(s, ",\"\r\n")
}

// Stringify converts a field value to its CSV text. nil and SQL NULLs
// become the empty string; times use RFC 3339 like the JSON responses.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339Nano)
	case driver.Valuer:
		// null.String and friends: unwrap to the driver value.
		inner, err := x.Value()
		if err != nil || inner == nil {
			return ""
		}
		return Stringify(inner)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
