package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"

	"jiracli/api"
	"jiracli/config"
	"jiracli/models"
	"jiracli/utils"
)

// DefaultIssueType はイシュータイプ未指定時の値です
const DefaultIssueType = "Task"

// IssueService はイシューの一覧取得と単体作成を処理します
type IssueService struct {
	config  config.Config
	tracker Tracker
}

// NewIssueService は新しいイシューサービスを作成します
func NewIssueService(cfg config.Config, tracker Tracker) *IssueService {
	return &IssueService{
		config:  cfg,
		tracker: tracker,
	}
}

// ListIssues はフィルタに一致するイシューを作成日の降順で返します。
// 日付が不正な場合はAPIを呼び出す前にエラーを返します。
func (s *IssueService) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	jql, err := api.BuildSearchQuery(filter)
	if err != nil {
		return nil, err
	}

	maxResults := s.config.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}

	issues, err := s.tracker.SearchIssues(ctx, jql, maxResults)
	if err != nil {
		return nil, errors.Wrap(err, "イシュー一覧取得エラー")
	}
	return issues, nil
}

// CreateIssue はイシューを1件作成し、キーと閲覧用URLを返します
func (s *IssueService) CreateIssue(ctx context.Context, project, summary, description, issueType string) (string, string, error) {
	if issueType == "" {
		issueType = DefaultIssueType
	}

	key, err := s.tracker.CreateIssue(ctx, models.IssueInput{
		Project:     project,
		Summary:     summary,
		Description: description,
		IssueType:   issueType,
	})
	if err != nil {
		return "", "", err
	}
	return key, s.tracker.BrowseURL(key), nil
}

// FilterDueNow は期日が now の日付以前のイシューだけを返します。
// 期日が未設定または解析できないイシューは除外します。
func FilterDueNow(issues []models.Issue, now time.Time) []models.Issue {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Due == "" {
			continue
		}
		due, err := time.ParseInLocation(api.DateLayout, issue.Due, now.Location())
		if err != nil {
			utils.LogWarn("イシュー %s: 期日 '%s' を解析できません", issue.Key, issue.Due)
			continue
		}
		if !due.After(today) {
			result = append(result, issue)
		}
	}
	return result
}

// ExportFileName はフィルタ条件と日付からエクスポート先のファイル名を作ります
func ExportFileName(filter models.IssueFilter, now time.Time) string {
	userPart := "me"
	if filter.Assignee != "" {
		userPart = filter.Assignee
	}

	statusPart := "all"
	if len(filter.Statuses) > 0 {
		statusPart = strings.Join(filter.Statuses, "+")
	}

	datePart := now.Format(api.DateLayout)
	if filter.CreatedFrom != "" {
		datePart = filter.CreatedFrom
	}

	parts := []string{userPart, statusPart, datePart, "issues"}
	for i, p := range parts {
		parts[i] = sanitizeFileNamePart(p)
	}
	return strings.Join(parts, "_") + ".csv"
}

func sanitizeFileNamePart(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
}
