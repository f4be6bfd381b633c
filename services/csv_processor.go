package services

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"jiracli/models"
	"jiracli/utils"
)

// 一括作成CSVの列名
const (
	ColumnSummary     = "summary"
	ColumnDescription = "description"
	ColumnIssueType   = "issuetype"
	ColumnParent      = "parent"
	ColumnAssignee    = "assignee"
)

// ErrMissingColumn は必須列が無いことを表します
var ErrMissingColumn = errors.New("必須の列が見つかりません")

// ReadCSV は汎用CSVリーダーです。
// ヘッダーは前後の空白を除き小文字にそろえます。
func ReadCSV(filePath string) ([]models.CSVRecord, []string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "CSVオープンエラー")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "CSV読み込みエラー")
	}

	if len(records) < 2 {
		return nil, nil, errors.Newf("CSVデータが不足しています: %s", filePath)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\ufeff")
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	result := make([]models.CSVRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			utils.LogInfo("行 %d: 空行をスキップします", i+2)
			continue
		}
		rowData := make(models.CSVRecord)
		for j := 0; j < min(len(headers), len(record)); j++ {
			rowData[headers[j]] = strings.TrimSpace(record[j])
		}
		result = append(result, rowData)
	}

	return result, headers, nil
}

// ReadBulkCSV は一括作成用のCSVを読み込みます。
// summary 列は必須、description / issuetype / parent / assignee 列は任意です。
func ReadBulkCSV(filePath string) ([]models.BulkRow, error) {
	utils.LogInfo("CSVファイル '%s' を読み込みます", filePath)

	records, headers, err := ReadCSV(filePath)
	if err != nil {
		return nil, err
	}

	if !contains(headers, ColumnSummary) {
		return nil, errors.Wrapf(ErrMissingColumn, "%s", ColumnSummary)
	}

	rows := make([]models.BulkRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, models.BulkRow{
			Summary:     record[ColumnSummary],
			Description: record[ColumnDescription],
			IssueType:   record[ColumnIssueType],
			Parent:      record[ColumnParent],
			Assignee:    record[ColumnAssignee],
		})
	}

	utils.LogInfo("CSVを読み込みました: %d 行", len(rows))
	return rows, nil
}

// WriteIssuesCSV はイシュー一覧をCSVに書き出します
func WriteIssuesCSV(filePath string, issues []models.Issue) error {
	utils.LogInfo("CSVファイル '%s' を作成します", filePath)

	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "CSVファイル作成エラー")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(models.IssueColumns); err != nil {
		return errors.Wrap(err, "ヘッダー書き込みエラー")
	}

	for _, issue := range issues {
		if err := writer.Write(issue.Values()); err != nil {
			return errors.Wrap(err, "行書き込みエラー")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "CSV書き込み完了エラー")
	}

	utils.LogInfo("CSV書き込み完了: %d 行", len(issues))
	return nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
