package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"jiracli/api"
	"jiracli/models"
	"jiracli/utils"
)

// DefaultSummary はサマリーが空の行に使う値です
const DefaultSummary = "Untitled"

// FailurePolicy はイシュー作成に失敗した行の扱いです
type FailurePolicy int

const (
	// BestEffort は失敗を記録して次の行へ進みます
	BestEffort FailurePolicy = iota
	// FailFast は最初の失敗で処理を中断します
	FailFast
)

// BulkService はCSVの行からイシューを順番に作成します
type BulkService struct {
	tracker Tracker
	policy  FailurePolicy
}

// NewBulkService は新しい一括作成サービスを作成します
func NewBulkService(tracker Tracker, policy FailurePolicy) *BulkService {
	return &BulkService{
		tracker: tracker,
		policy:  policy,
	}
}

// BulkCreate は rows を先頭から1行ずつ処理します。
// 各行の結果は作成のたびに onResult へ渡されます (nil可)。
// FailFast の場合のみ、途中までのレポートとエラーを返します。
func (b *BulkService) BulkCreate(ctx context.Context, rows []models.BulkRow, projectKey string, onResult func(models.RowResult)) (*models.BatchReport, error) {
	startTime := time.Now()
	defer utils.TrackTime(startTime, "一括作成")

	report := &models.BatchReport{Total: len(rows)}
	utils.LogInfo("イシューの一括作成を開始します: %d 件", len(rows))

	for i, row := range rows {
		result := b.processRow(ctx, i+1, row, projectKey)
		report.Results = append(report.Results, result)

		if onResult != nil {
			onResult(result)
		}

		if result.Err != nil {
			utils.LogError("行 %d の処理に失敗: %v", result.Row, result.Err)
			if b.policy == FailFast {
				return report, errors.Wrapf(result.Err, "行 %d で中断しました", result.Row)
			}
			continue
		}
		utils.LogInfo("行 %d の処理が完了: %s", result.Row, result.Key)
	}

	utils.LogInfo("一括作成が完了しました: 成功=%d, 失敗=%d", report.Succeeded(), len(report.Failed()))
	return report, nil
}

// processRow は1つの行を処理しJIRAイシューを作成します
func (b *BulkService) processRow(ctx context.Context, rowNum int, row models.BulkRow, projectKey string) models.RowResult {
	row = normalizeRow(row)
	result := models.RowResult{
		Row:       rowNum,
		Summary:   row.Summary,
		IssueType: row.IssueType,
	}

	// 1. 親イシューの解決
	parentKey, warn := b.resolveParent(ctx, projectKey, row.Parent)
	if warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}

	// 2. 担当者の解決
	assigneeID, warn := b.resolveAssignee(ctx, row.Assignee)
	if warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}

	input := models.IssueInput{
		Project:     projectKey,
		Summary:     row.Summary,
		Description: row.Description,
		IssueType:   row.IssueType,
		AssigneeID:  assigneeID,
	}

	// 親リンクはサブタスクのみ
	if parentKey != "" {
		if IsSubTask(row.IssueType) {
			input.ParentKey = parentKey
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("親イシュー %s は %s には設定されません (サブタスクのみ)", parentKey, row.IssueType))
		}
	}

	for _, w := range result.Warnings {
		utils.LogWarn("行 %d: %s", rowNum, w)
	}

	// 3. イシュー作成
	key, err := b.tracker.CreateIssue(ctx, input)
	if err != nil {
		result.Err = err
		return result
	}

	result.Key = key
	result.URL = b.tracker.BrowseURL(key)
	result.ParentKey = input.ParentKey
	result.AssigneeID = input.AssigneeID
	return result
}

// resolveParent は親イシューの参照をキーに変換します。
// 見つからない場合や検索に失敗した場合は空のキーと警告を返します。
func (b *BulkService) resolveParent(ctx context.Context, projectKey, ref string) (string, string) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ""
	}
	if api.IsIssueKey(ref) {
		return ref, ""
	}

	issues, err := b.tracker.SearchIssues(ctx, api.BuildSummaryQuery(projectKey, ref), 1)
	if err != nil {
		return "", fmt.Sprintf("親イシュー '%s' の検索に失敗しました: %v", ref, err)
	}
	if len(issues) == 0 {
		return "", fmt.Sprintf("親イシュー '%s' が見つかりません", ref)
	}
	return issues[0].Key, ""
}

// resolveAssignee は担当者の参照をアカウントIDに変換します。
// '@' を含まない値はアカウントIDとしてそのまま使います。
func (b *BulkService) resolveAssignee(ctx context.Context, ref string) (string, string) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ""
	}
	if !strings.Contains(ref, "@") {
		return ref, ""
	}

	accounts, err := b.tracker.FindUsers(ctx, ref)
	if err != nil {
		return "", fmt.Sprintf("%s のアカウントID取得に失敗しました: %v", ref, err)
	}
	if len(accounts) == 0 {
		return "", fmt.Sprintf("%s に該当するユーザーが見つかりません", ref)
	}
	return accounts[0].AccountID, ""
}

// IsSubTask はイシュータイプがサブタスクかを返します
func IsSubTask(issueType string) bool {
	switch strings.ToLower(strings.TrimSpace(issueType)) {
	case "sub-task", "subtask":
		return true
	}
	return false
}

func normalizeRow(row models.BulkRow) models.BulkRow {
	row.Summary = strings.TrimSpace(row.Summary)
	if row.Summary == "" {
		row.Summary = DefaultSummary
	}
	row.IssueType = strings.TrimSpace(row.IssueType)
	if row.IssueType == "" {
		row.IssueType = DefaultIssueType
	}
	return row
}
