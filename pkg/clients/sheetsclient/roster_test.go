package sheetsclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danyan90/TA/pkg/table"
)

// mockValuesClient implements ValuesClient for testing
type mockValuesClient struct {
	values       [][]interface{}
	getErr       error
	clearErr     error
	updateErr    error
	clearedRange string
	updatedRange string
	updated      [][]interface{}
}

func (m *mockValuesClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.values, nil
}

func (m *mockValuesClient) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedRange = sheetRange
	m.updated = values
	return nil
}

func (m *mockValuesClient) ClearValues(spreadsheetID, sheetRange string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedRange = sheetRange
	return nil
}

func TestLoadTable(t *testing.T) {
	client := &mockValuesClient{
		values: [][]interface{}{
			{"Name", "Lab_1", "Lab_2"},
			{"Alice", "1", "2"},
			{"Bob", "3"},
			{"Carol", float64(4), nil},
		},
	}

	tbl, err := LoadTable(client, "sheet123", "Roster")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Lab_1", "Lab_2"}, tbl.Headers)
	require.Equal(t, 3, tbl.RowCount())

	column, err := tbl.ColumnByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, []any{"2", nil, nil}, column)

	column, err = tbl.ColumnByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "3", "4"}, column)
}

func TestLoadTable_Error(t *testing.T) {
	client := &mockValuesClient{getErr: errors.New("quota exceeded")}

	_, err := LoadTable(client, "sheet123", "Roster")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLoadTable_EmptyTab(t *testing.T) {
	client := &mockValuesClient{values: [][]interface{}{}}

	_, err := LoadTable(client, "sheet123", "Roster")
	assert.Error(t, err)
}

func TestSaveTable(t *testing.T) {
	tbl := table.New("Name", "Lab_1", "Lab_2")
	tbl.AddRow("Alice", "1", "5")
	tbl.AddRow("Bob", "2")

	client := &mockValuesClient{}
	require.NoError(t, SaveTable(client, "sheet123", "Roster", tbl))

	assert.Equal(t, "Roster", client.clearedRange)
	assert.Equal(t, "Roster!A1", client.updatedRange)
	assert.Equal(t, [][]interface{}{
		{"Name", "Lab_1", "Lab_2"},
		{"Alice", "1", "5"},
		{"Bob", "2", ""},
	}, client.updated)
}

func TestSaveTable_ClearFails(t *testing.T) {
	client := &mockValuesClient{clearErr: errors.New("permission denied")}

	err := SaveTable(client, "sheet123", "Roster", table.New("Name"))
	assert.Error(t, err)
	assert.Nil(t, client.updated, "nothing should be written after a failed clear")
}
