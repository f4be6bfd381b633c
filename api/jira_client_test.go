package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiracli/models"
)

func newTestClient(t *testing.T, handler http.Handler) *JiraClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewJiraClient(models.Credentials{
		Email: "me@example.com",
		Token: "secret-token",
		URL:   srv.URL,
	})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSearchIssues_ProjectsFields(t *testing.T) {
	t.Parallel()
	var gotJQL, gotFields, gotUser, gotPass string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		gotJQL = r.URL.Query().Get("jql")
		gotFields = r.URL.Query().Get("fields")
		gotUser, gotPass, _ = r.BasicAuth()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"startAt": 0, "maxResults": 500, "total": 2,
			"issues": []map[string]interface{}{
				{
					"key": "PROJ-2",
					"fields": map[string]interface{}{
						"summary":   "Implement",
						"issuetype": map[string]interface{}{"name": "Sub-task"},
						"status":    map[string]interface{}{"name": "In Progress"},
						"assignee":  map[string]interface{}{"displayName": "Alice"},
						"reporter":  map[string]interface{}{"displayName": "Bob"},
						"duedate":   "2025-03-01",
					},
				},
				{
					"key": "PROJ-1",
					"fields": map[string]interface{}{
						"summary":   "Design",
						"issuetype": map[string]interface{}{"name": "Task"},
						"status":    map[string]interface{}{"name": "To Do"},
						"assignee":  nil,
						"reporter":  map[string]interface{}{"displayName": "Bob"},
						"duedate":   nil,
					},
				},
			},
		})
	}))

	issues, err := client.SearchIssues(context.Background(), "assignee = currentUser() ORDER BY created DESC", 500)
	require.NoError(t, err)

	assert.Equal(t, "assignee = currentUser() ORDER BY created DESC", gotJQL)
	assert.Equal(t, strings.Join(SearchFields, ","), gotFields)
	assert.Equal(t, "me@example.com", gotUser)
	assert.Equal(t, "secret-token", gotPass)

	require.Len(t, issues, 2)
	assert.Equal(t, "PROJ-2", issues[0].Key)
	assert.Equal(t, "Implement", issues[0].Summary)
	assert.Equal(t, "Sub-task", issues[0].Type)
	assert.Equal(t, "In Progress", issues[0].Status)
	assert.Equal(t, "Alice", issues[0].Assignee)
	assert.Equal(t, "Bob", issues[0].Reporter)
	assert.Equal(t, "2025-03-01", issues[0].Due)
	assert.True(t, strings.HasSuffix(issues[0].URL, "/browse/PROJ-2"))

	assert.Equal(t, "", issues[1].Assignee)
	assert.Equal(t, "", issues[1].Due)
}

func TestSearchIssues_PagesUpToLimit(t *testing.T) {
	t.Parallel()
	const total = 7
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		// サーバー側のページサイズは3件
		var page []map[string]interface{}
		for i := startAt; i < total && i < startAt+3; i++ {
			page = append(page, map[string]interface{}{
				"key":    fmt.Sprintf("PROJ-%d", i+1),
				"fields": map[string]interface{}{"summary": "s"},
			})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"startAt": startAt, "maxResults": 3, "total": total, "issues": page,
		})
	}))

	issues, err := client.SearchIssues(context.Background(), "project = PROJ", 5)
	require.NoError(t, err)
	require.Len(t, issues, 5)
	assert.Equal(t, "PROJ-5", issues[4].Key)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchIssues_RemoteError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errorMessages": []string{"Error in the JQL Query"},
		})
	}))

	_, err := client.SearchIssues(context.Background(), "bad jql", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))
	assert.Contains(t, err.Error(), "Error in the JQL Query")
}

func TestFindUsers(t *testing.T) {
	t.Parallel()
	var gotQuery, gotActive string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/user/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotActive = r.URL.Query().Get("includeActive")
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"accountId": "5b10ac8d82e05b22cc7d4ef5", "displayName": "Alice", "emailAddress": "alice+jira@example.com"},
		})
	}))

	accounts, err := client.FindUsers(context.Background(), "alice+jira@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice+jira@example.com", gotQuery)
	assert.Equal(t, "true", gotActive)
	require.Len(t, accounts, 1)
	assert.Equal(t, "5b10ac8d82e05b22cc7d4ef5", accounts[0].AccountID)
	assert.Equal(t, "Alice", accounts[0].DisplayName)
}

func TestCreateIssue(t *testing.T) {
	t.Parallel()
	var body map[string]map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/2/issue", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]string{"id": "10002", "key": "PROJ-2"})
	}))

	key, err := client.CreateIssue(context.Background(), models.IssueInput{
		Project:     "PROJ",
		Summary:     "Implement",
		Description: "details",
		IssueType:   "Sub-task",
		ParentKey:   "PROJ-1",
		AssigneeID:  "acc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "PROJ-2", key)

	fields := body["fields"]
	assert.Equal(t, "Implement", fields["summary"])
	assert.Equal(t, "details", fields["description"])
	assert.Equal(t, map[string]interface{}{"key": "PROJ"}, fields["project"])
	assert.Equal(t, map[string]interface{}{"name": "Sub-task"}, fields["issuetype"])
	assert.Equal(t, map[string]interface{}{"key": "PROJ-1"}, fields["parent"])
	assignee, ok := fields["assignee"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "acc-1", assignee["accountId"])
}

func TestCreateIssue_OmitsUnresolvedFields(t *testing.T) {
	t.Parallel()
	var body map[string]map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]string{"id": "10001", "key": "PROJ-1"})
	}))

	_, err := client.CreateIssue(context.Background(), models.IssueInput{Project: "PROJ", Summary: "Design", IssueType: "Task"})
	require.NoError(t, err)
	assert.NotContains(t, body["fields"], "parent")
	assert.NotContains(t, body["fields"], "assignee")
}

func TestCreateIssue_RemoteError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": map[string]string{"issuetype": "valid issue type is required"},
		})
	}))

	_, err := client.CreateIssue(context.Background(), models.IssueInput{Project: "PROJ", Summary: "x", IssueType: "Nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemote))
	assert.Contains(t, err.Error(), "valid issue type is required")
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accountId": "acc-me", "displayName": "Me", "emailAddress": "me@example.com",
		})
	}))

	me, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Account{AccountID: "acc-me", DisplayName: "Me", Email: "me@example.com"}, me)
}

func TestBrowseURL(t *testing.T) {
	t.Parallel()
	client, err := NewJiraClient(models.Credentials{Email: "e", Token: "t", URL: "https://example.atlassian.net/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net/browse/PROJ-9", client.BrowseURL("PROJ-9"))
}
