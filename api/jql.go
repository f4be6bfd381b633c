package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"jiracli/models"
)

// DateLayout は日付フィルタで受け付ける形式です
const DateLayout = "2006-01-02"

// ErrInvalidDate は日付が YYYY-MM-DD 形式でないことを表します
var ErrInvalidDate = errors.New("日付は YYYY-MM-DD 形式で指定してください")

// SearchFields は一覧取得時に要求するフィールドです
var SearchFields = []string{"summary", "status", "issuetype", "duedate", "assignee", "reporter"}

var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-[0-9]+$`)

// ValidateDate は日付文字列を厳密に検証します
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errors.Wrapf(ErrInvalidDate, "%q", date)
	}
	return nil
}

// BuildSearchQuery はフィルタからJQLを組み立てます。
// 各条件は AND、ステータスは OR で結合し、作成日の降順に並べます。
func BuildSearchQuery(filter models.IssueFilter) (string, error) {
	var parts []string

	if filter.Assignee != "" {
		parts = append(parts, fmt.Sprintf("assignee = %s", quote(filter.Assignee)))
	} else {
		parts = append(parts, "assignee = currentUser()")
	}

	if filter.CreatedFrom != "" {
		if err := ValidateDate(filter.CreatedFrom); err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("created >= %s", quote(filter.CreatedFrom)))
	}

	if len(filter.Statuses) > 0 {
		clauses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			clauses = append(clauses, fmt.Sprintf("status = %s", quote(s)))
		}
		parts = append(parts, "("+strings.Join(clauses, " OR ")+")")
	}

	return strings.Join(parts, " AND ") + " ORDER BY created DESC", nil
}

// BuildSummaryQuery はサマリーの部分一致でイシューを探すJQLを組み立てます
func BuildSummaryQuery(projectKey, summary string) string {
	return fmt.Sprintf("project = %s AND summary ~ %s ORDER BY created DESC", quote(projectKey), quote(summary))
}

// IsIssueKey は値がイシューキー (例: PROJ-123) の形式かを返します
func IsIssueKey(value string) bool {
	return issueKeyPattern.MatchString(value)
}

// quote はJQLの文字列リテラルを作ります
func quote(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}
