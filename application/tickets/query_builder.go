package tickets

import (
	"devdesk/common"
	"devdesk/internal/csvenc"
	"devdesk/internal/query"
)

// Columns is the select list shared by list and export queries.
var Columns = []string{"id", "title", "description", "category", "status", "created_at"}

// SearchColumns are matched by the free-text q filter.
var SearchColumns = []string{"title", "description"}

// CSVColumns is the export layout.
var CSVColumns = []csvenc.Column{
	{Key: "id", Header: "Ticket ID"},
	{Key: "title", Header: "Title"},
	{Key: "description", Header: "Description"},
	{Key: "category", Header: "Category"},
	{Key: "status", Header: "Status"},
	{Key: "created_at", Header: "Created At"},
}

// CSVFilename is the download name of the export.
const CSVFilename = "tickets.csv"

// SearchParams are the optional list filters.
type SearchParams struct {
	Q        string
	Status   string
	Category string
}

// BuildListQuery builds the filtered, newest-first ticket query.
func BuildListQuery(p SearchParams) (string, []interface{}, error) {
	return query.Build(query.Filter{
		Table:         common.Ticket{}.TableName(),
		Columns:       Columns,
		Search:        p.Q,
		SearchColumns: SearchColumns,
		Equals: []query.Equal{
			{Column: "status", Value: p.Status},
			{Column: "category", Value: p.Category},
		},
	})
}

// BuildExportQuery builds the unfiltered export query.
func BuildExportQuery() (string, []interface{}, error) {
	return BuildListQuery(SearchParams{})
}
