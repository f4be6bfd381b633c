package services

import (
	"context"

	"jiracli/models"
)

// Tracker はサービス層が利用するJIRA APIの操作です。
// api.JiraClient がこれを実装します。
type Tracker interface {
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.Issue, error)
	FindUsers(ctx context.Context, query string) ([]models.Account, error)
	CreateIssue(ctx context.Context, input models.IssueInput) (string, error)
	BrowseURL(key string) string
}
