package main

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"jiracli/models"
)

// renderIssues はイシュー一覧を表形式で出力します
func renderIssues(w io.Writer, issues []models.Issue) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.SetHeader(models.IssueColumns)
	for _, issue := range issues {
		table.Append(issue.Values())
	}
	table.Render()
}
