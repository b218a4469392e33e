package sheetsclient

import (
	"fmt"

	"github.com/danyan90/TA/pkg/table"
)

// ValuesClient is the subset of Client used to load and save rosters
type ValuesClient interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
	UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error
	ClearValues(spreadsheetID, sheetRange string) error
}

// LoadTable reads a whole tab as a roster table. The first row is the header row.
func LoadTable(client ValuesClient, spreadsheetID, tab string) (*table.Table, error) {
	values, err := client.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster tab %s: %w", tab, err)
	}

	return TableFromValues(values)
}

// SaveTable replaces the contents of a tab with the roster table
func SaveTable(client ValuesClient, spreadsheetID, tab string, tbl *table.Table) error {
	if err := client.ClearValues(spreadsheetID, tab); err != nil {
		return fmt.Errorf("failed to clear roster tab %s: %w", tab, err)
	}

	if err := client.UpdateValues(spreadsheetID, fmt.Sprintf("%s!A1", tab), ValuesFromTable(tbl)); err != nil {
		return fmt.Errorf("failed to write roster tab %s: %w", tab, err)
	}

	return nil
}

// TableFromValues converts a grid returned by the Sheets API into a table.
// The API omits trailing empty cells, so rows may be shorter than the header.
func TableFromValues(values [][]interface{}) (*table.Table, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("roster tab has no header row")
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = cellString(cell)
	}

	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		rows = append(rows, cells)
	}

	return &table.Table{Headers: headers, Rows: rows}, nil
}

// ValuesFromTable converts a table into a grid for the Sheets API, header row first
func ValuesFromTable(tbl *table.Table) [][]interface{} {
	values := make([][]interface{}, 0, len(tbl.Rows)+1)

	header := make([]interface{}, len(tbl.Headers))
	for i, h := range tbl.Headers {
		header[i] = h
	}
	values = append(values, header)

	for _, row := range tbl.Rows {
		cells := make([]interface{}, len(tbl.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		values = append(values, cells)
	}

	return values
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
