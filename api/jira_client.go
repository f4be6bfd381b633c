package api

import (
	"context"
	"net/url"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/cockroachdb/errors"

	"jiracli/models"
	"jiracli/utils"
)

// ErrRemote はJIRA API呼び出しの失敗を表します
var ErrRemote = errors.New("JIRA APIエラー")

// JiraClient はJIRA APIとのやり取りを処理します
type JiraClient struct {
	creds  models.Credentials
	client *jira.Client
}

// NewJiraClient は新しいJIRAクライアントを作成します。
// 認証はメールアドレスとAPIトークンによるBasic認証です。
func NewJiraClient(creds models.Credentials) (*JiraClient, error) {
	tp := jira.BasicAuthTransport{
		Username: creds.Email,
		Password: creds.Token,
	}
	client, err := jira.NewClient(tp.Client(), creds.URL)
	if err != nil {
		return nil, errors.Wrap(err, "JIRAクライアント作成エラー")
	}
	return &JiraClient{
		creds:  creds,
		client: client,
	}, nil
}

// CurrentUser は認証中のユーザーを返します
func (j *JiraClient) CurrentUser(ctx context.Context) (models.Account, error) {
	user, _, err := j.client.User.GetSelfWithContext(ctx)
	if err != nil {
		return models.Account{}, remoteError(err, "認証ユーザー取得エラー")
	}
	return toAccount(*user), nil
}

// SearchIssues はJQLでイシューを検索し、最大 maxResults 件を返します
func (j *JiraClient) SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.Issue, error) {
	utils.LogInfo("JQL: %s", jql)

	result := make([]models.Issue, 0)
	for len(result) < maxResults {
		opts := &jira.SearchOptions{
			StartAt:    len(result),
			MaxResults: maxResults - len(result),
			Fields:     SearchFields,
		}
		issues, resp, err := j.client.Issue.SearchWithContext(ctx, jql, opts)
		if err != nil {
			return nil, remoteError(err, "イシュー検索エラー")
		}

		for _, issue := range issues {
			if len(result) == maxResults {
				break
			}
			result = append(result, j.toIssue(issue))
		}

		if len(issues) == 0 || resp == nil || len(result) >= resp.Total {
			break
		}
	}

	utils.LogInfo("検索結果: %d 件", len(result))
	return result, nil
}

// FindUsers はメールアドレスや表示名でユーザーを検索します
func (j *JiraClient) FindUsers(ctx context.Context, query string) ([]models.Account, error) {
	users, _, err := j.client.User.FindWithContext(ctx, url.QueryEscape(query), jira.WithActive(true))
	if err != nil {
		return nil, remoteError(err, "ユーザー検索エラー")
	}

	accounts := make([]models.Account, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, toAccount(u))
	}
	return accounts, nil
}

// CreateIssue はJIRAイシューを作成し、作成されたキーを返します
func (j *JiraClient) CreateIssue(ctx context.Context, input models.IssueInput) (string, error) {
	issue := newIssue(input)

	created, resp, err := j.client.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		if resp != nil {
			err = jira.NewJiraError(resp, err)
		}
		return "", remoteError(err, "イシュー作成エラー")
	}
	if created == nil || created.Key == "" {
		return "", errors.Mark(errors.New("イシューキーが見つかりません"), ErrRemote)
	}

	utils.LogInfo("イシューを作成しました: %s", created.Key)
	return created.Key, nil
}

// BrowseURL はイシューの閲覧用URLを返します
func (j *JiraClient) BrowseURL(key string) string {
	return j.creds.BrowseURL(key)
}

func newIssue(input models.IssueInput) *jira.Issue {
	var issue jira.Issue
	issue.Fields = &jira.IssueFields{}
	issue.Fields.Project = jira.Project{
		Key: input.Project,
	}
	issue.Fields.Type = jira.IssueType{
		Name: input.IssueType,
	}
	issue.Fields.Summary = input.Summary
	issue.Fields.Description = input.Description

	if input.AssigneeID != "" {
		issue.Fields.Assignee = &jira.User{AccountID: input.AssigneeID}
	}
	if input.ParentKey != "" {
		issue.Fields.Parent = &jira.Parent{Key: input.ParentKey}
	}
	return &issue
}

// toIssue は検索結果を平坦なレコードに変換します
func (j *JiraClient) toIssue(issue jira.Issue) models.Issue {
	rec := models.Issue{
		Key: issue.Key,
		URL: j.creds.BrowseURL(issue.Key),
	}

	f := issue.Fields
	if f == nil {
		return rec
	}
	rec.Summary = f.Summary
	rec.Type = f.Type.Name
	if f.Status != nil {
		rec.Status = f.Status.Name
	}
	if f.Assignee != nil {
		rec.Assignee = f.Assignee.DisplayName
	}
	if f.Reporter != nil {
		rec.Reporter = f.Reporter.DisplayName
	}
	if due := time.Time(f.Duedate); !due.IsZero() {
		rec.Due = due.Format(DateLayout)
	}
	return rec
}

func toAccount(u jira.User) models.Account {
	return models.Account{
		AccountID:   u.AccountID,
		DisplayName: u.DisplayName,
		Email:       u.EmailAddress,
	}
}

func remoteError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrRemote)
}
