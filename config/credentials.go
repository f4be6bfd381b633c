package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"jiracli/models"
)

// ErrNotConfigured は認証情報が保存されていないことを表します
var ErrNotConfigured = errors.New("JIRAの認証情報が設定されていません")

// maskedPrefixLen はトークン表示時に残す文字数です
const maskedPrefixLen = 6

// CredentialStore は認証情報をTOMLファイルに保存します。
// 保存される認証情報は常に1件だけです。
type CredentialStore struct {
	path string
}

// NewCredentialStore は新しいストアを作成します
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Path は保存先のパスを返します
func (s *CredentialStore) Path() string {
	return s.path
}

// Save は認証情報を保存します (既存の内容は上書き)
func (s *CredentialStore) Save(creds models.Credentials) error {
	creds.URL = strings.TrimRight(strings.TrimSpace(creds.URL), "/")
	creds.Email = strings.TrimSpace(creds.Email)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "設定ディレクトリ作成エラー")
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "認証情報ファイル作成エラー")
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(creds); err != nil {
		return errors.Wrap(err, "認証情報書き込みエラー")
	}
	return nil
}

// Load は保存された認証情報を読み込みます。
// ファイルが無い場合や必須項目が欠けている場合は ErrNotConfigured を返します。
func (s *CredentialStore) Load() (models.Credentials, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return models.Credentials{}, notConfigured()
	}

	var creds models.Credentials
	if _, err := toml.DecodeFile(s.path, &creds); err != nil {
		return models.Credentials{}, errors.Wrapf(err, "認証情報ファイル %s の読み込みエラー", s.path)
	}
	if !creds.IsComplete() {
		return models.Credentials{}, notConfigured()
	}
	return creds, nil
}

// Delete は認証情報を削除します。削除した場合は true を返します。
func (s *CredentialStore) Delete() (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "認証情報削除エラー")
	}
	return true, nil
}

// View はトークンを伏せた認証情報を返します
func (s *CredentialStore) View() (models.Credentials, error) {
	creds, err := s.Load()
	if err != nil {
		return models.Credentials{}, err
	}
	creds.Token = MaskToken(creds.Token)
	return creds, nil
}

// MaskToken はトークンの先頭だけを残して伏せ字にします
func MaskToken(token string) string {
	if token == "" {
		return "N/A"
	}
	if len(token) <= maskedPrefixLen {
		return "..."
	}
	return token[:maskedPrefixLen] + "..."
}

func notConfigured() error {
	return errors.WithHint(ErrNotConfigured, "先に `jiracli user set` を実行してJIRAの認証情報を設定してください。")
}
