package stream

import (
	"fmt"

	"devdesk/internal/csvenc"

	json "github.com/json-iterator/go"
)

type jsonArrayEncoder struct{}

// JSONArray frames items as a single JSON array.
func JSONArray() Encoder {
	return jsonArrayEncoder{}
}

func (jsonArrayEncoder) ContentType() string {
	return "application/json; charset=utf-8"
}

func (jsonArrayEncoder) Begin(buf []byte) []byte {
	return append(buf, '[')
}

func (jsonArrayEncoder) Item(buf []byte, item interface{}, index int) ([]byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return buf, fmt.Errorf("JSON marshal error: %w", err)
	}
	if index > 0 {
		buf = append(buf, ',')
	}
	return append(buf, data...), nil
}

func (jsonArrayEncoder) End(buf []byte) []byte {
	return append(buf, ']')
}

type csvEncoder struct {
	columns []csvenc.Column
}

// CSV frames items as CSV text: the header line, then one line per item.
// Items must implement csvenc.Record.
func CSV(columns []csvenc.Column) Encoder {
	return csvEncoder{columns: columns}
}

func (csvEncoder) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (e csvEncoder) Begin(buf []byte) []byte {
	return csvenc.AppendHeader(buf, e.columns)
}

func (e csvEncoder) Item(buf []byte, item interface{}, _ int) ([]byte, error) {
	rec, ok := item.(csvenc.Record)
	if !ok {
		return buf, fmt.Errorf("CSV encode error: %T is not a csvenc.Record", item)
	}
	buf = append(buf, '\n')
	return csvenc.AppendRecord(buf, rec, e.columns), nil
}

func (csvEncoder) End(buf []byte) []byte {
	return buf
}
