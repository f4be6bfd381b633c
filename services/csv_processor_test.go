package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiracli/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadBulkCSV(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "\ufeffSummary, Description ,IssueType,parent,assignee\n"+
		"Design,Write the design,Task,,alice@example.com\n"+
		"Implement,\"Build it, then ship\",Sub-task,Design,\n"+
		",,,,\n")

	rows, err := ReadBulkCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []models.BulkRow{
		{Summary: "Design", Description: "Write the design", IssueType: "Task", Assignee: "alice@example.com"},
		{Summary: "Implement", Description: "Build it, then ship", IssueType: "Sub-task", Parent: "Design"},
	}, rows)
}

func TestReadBulkCSV_OptionalColumnsMissing(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "summary\nOnly a title\n")

	rows, err := ReadBulkCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []models.BulkRow{{Summary: "Only a title"}}, rows)
}

func TestReadBulkCSV_ShortRows(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "summary,description,issuetype\nA\nB,desc,Bug\n")

	rows, err := ReadBulkCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Summary)
	assert.Equal(t, "Bug", rows[1].IssueType)
}

func TestReadBulkCSV_MissingSummaryColumn(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "title,description\nx,y\n")

	_, err := ReadBulkCSV(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestReadBulkCSV_NoRows(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "summary,description\n")

	_, err := ReadBulkCSV(path)
	require.Error(t, err)
}

func TestReadBulkCSV_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := ReadBulkCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestWriteIssuesCSV(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.csv")
	issues := []models.Issue{
		{Key: "PROJ-1", Summary: "Design, v2", Type: "Task", Status: "To Do", Reporter: "Bob", URL: "https://x/browse/PROJ-1"},
		{Key: "PROJ-2", Summary: "Implement", Type: "Sub-task", Status: "Done", Assignee: "Alice", Due: "2025-03-01"},
	}
	require.NoError(t, WriteIssuesCSV(path, issues))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, models.IssueColumns, records[0])
	assert.Equal(t, []string{"PROJ-1", "Design, v2", "Task", "To Do", "", "Bob", "", "https://x/browse/PROJ-1"}, records[1])
	assert.Equal(t, "Alice", records[2][4])
}
