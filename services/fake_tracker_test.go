package services

import (
	"context"
	"fmt"
	"strings"

	"jiracli/models"
)

// fakeTracker はメモリ上でJIRAを模倣します。
// 作成したイシューはサマリー検索の対象になり、新しい順に返されます。
type fakeTracker struct {
	issues   []models.Issue // 作成順
	accounts map[string]models.Account

	searchErr     error
	findUsersErr  error
	createErrFor  map[string]error // サマリー → エラー
	searchIssues  []models.Issue   // 設定時は検索結果をこれで固定
	searchCalls   []string
	findCalls     []string
	createdInputs []models.IssueInput
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		accounts:     map[string]models.Account{},
		createErrFor: map[string]error{},
	}
}

func (f *fakeTracker) SearchIssues(_ context.Context, jql string, maxResults int) ([]models.Issue, error) {
	f.searchCalls = append(f.searchCalls, jql)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchIssues != nil {
		if len(f.searchIssues) > maxResults {
			return f.searchIssues[:maxResults], nil
		}
		return f.searchIssues, nil
	}

	var result []models.Issue
	for i := len(f.issues) - 1; i >= 0 && len(result) < maxResults; i-- {
		if strings.Contains(jql, fmt.Sprintf("summary ~ %q", f.issues[i].Summary)) {
			result = append(result, f.issues[i])
		}
	}
	return result, nil
}

func (f *fakeTracker) FindUsers(_ context.Context, query string) ([]models.Account, error) {
	f.findCalls = append(f.findCalls, query)
	if f.findUsersErr != nil {
		return nil, f.findUsersErr
	}
	if a, ok := f.accounts[query]; ok {
		return []models.Account{a}, nil
	}
	return nil, nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, input models.IssueInput) (string, error) {
	f.createdInputs = append(f.createdInputs, input)
	if err, ok := f.createErrFor[input.Summary]; ok {
		return "", err
	}
	key := fmt.Sprintf("%s-%d", input.Project, len(f.issues)+1)
	f.issues = append(f.issues, models.Issue{Key: key, Summary: input.Summary, Type: input.IssueType})
	return key, nil
}

func (f *fakeTracker) BrowseURL(key string) string {
	return "https://example.atlassian.net/browse/" + key
}
