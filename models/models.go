package models

import "strings"

// Credentials はJIRAへの認証情報を表します
type Credentials struct {
	Email string `toml:"email"`
	Token string `toml:"token"`
	URL   string `toml:"url"`
}

// IsComplete は必須項目がすべて揃っているかを返します
func (c Credentials) IsComplete() bool {
	return c.Email != "" && c.Token != "" && c.URL != ""
}

// BrowseURL はイシューキーからブラウザ用URLを組み立てます
func (c Credentials) BrowseURL(key string) string {
	return strings.TrimRight(c.URL, "/") + "/browse/" + key
}

// IssueFilter はイシュー検索の条件です (すべて任意)
type IssueFilter struct {
	Assignee    string   // 空の場合は currentUser()
	CreatedFrom string   // YYYY-MM-DD
	Statuses    []string // OR で結合
}

// Issue は検索結果を平坦化したイシューです
type Issue struct {
	Key      string
	Summary  string
	Type     string
	Status   string
	Assignee string // 表示名 (未割り当ては空)
	Reporter string
	Due      string // YYYY-MM-DD (未設定は空)
	URL      string
}

// IssueColumns は一覧表示とエクスポートで使う列名です
var IssueColumns = []string{"Key", "Summary", "Type", "Status", "Assignee", "Reporter", "Due", "URL"}

// Values は IssueColumns の順で値を返します
func (i Issue) Values() []string {
	return []string{i.Key, i.Summary, i.Type, i.Status, i.Assignee, i.Reporter, i.Due, i.URL}
}

// IssueInput は解決済みのイシュー作成リクエストです
type IssueInput struct {
	Project     string
	Summary     string
	Description string
	IssueType   string
	ParentKey   string
	AssigneeID  string
}

// Account はJIRAのユーザーアカウントです
type Account struct {
	AccountID   string
	DisplayName string
	Email       string
}

// BulkRow は一括作成CSVの1行を表します
type BulkRow struct {
	Summary     string
	Description string
	IssueType   string
	Parent      string // 親イシューのサマリーまたはキー
	Assignee    string // メールアドレスまたはアカウントID
}

// CSVRecord はCSVの1行を表します (ヘッダー名→値のマップ)
type CSVRecord map[string]string

// RowResult は一括作成における1行分の結果です
type RowResult struct {
	Row        int // 1始まり
	Summary    string
	IssueType  string
	Key        string
	URL        string
	ParentKey  string
	AssigneeID string
	Warnings   []string
	Err        error
}

// OK は作成に成功したかを返します
func (r RowResult) OK() bool {
	return r.Err == nil
}

// BatchReport は一括作成全体の結果です
type BatchReport struct {
	Total   int
	Results []RowResult
}

// Succeeded は成功した行数を返します
func (b *BatchReport) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed は失敗した行を返します
func (b *BatchReport) Failed() []RowResult {
	var failed []RowResult
	for _, r := range b.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Skipped は処理されなかった行数を返します (FailFast で中断した場合)
func (b *BatchReport) Skipped() int {
	return b.Total - len(b.Results)
}
