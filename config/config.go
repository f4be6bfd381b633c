package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"

	"jiracli/models"
)

// DefaultMaxResults は一覧取得時の最大件数です
const DefaultMaxResults = 500

// defaultCredentialsFile は認証情報ファイルの既定の場所です
const defaultCredentialsFile = "~/.jira_config.toml"

// Config は1回のコマンド実行で使う設定を保持します。
// 起動時に一度だけ読み込み、値として各処理に渡します。
type Config struct {
	// JIRA API設定
	Credentials models.Credentials

	// 認証情報ファイル
	CredentialsPath string

	// 検索結果の上限
	MaxResults int
}

// Settings は認証情報を必要としない設定だけを読み込みます
func Settings() (Config, error) {
	// .envファイルを読み込む
	_ = godotenv.Load()

	path, err := CredentialsPath()
	if err != nil {
		return Config{}, err
	}

	return Config{
		CredentialsPath: path,
		MaxResults:      getEnvAsIntWithDefault("JIRA_MAX_RESULTS", DefaultMaxResults),
	}, nil
}

// LoadConfig は環境変数と認証情報ファイルから設定を読み込みます。
// JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN がすべて設定されている場合はファイルより優先します。
func LoadConfig() (Config, error) {
	cfg, err := Settings()
	if err != nil {
		return Config{}, err
	}

	if env := credentialsFromEnv(); env.IsComplete() {
		cfg.Credentials = env
		return cfg, nil
	}

	creds, err := NewCredentialStore(cfg.CredentialsPath).Load()
	if err != nil {
		return Config{}, err
	}
	cfg.Credentials = creds
	return cfg, nil
}

// CredentialsPath は認証情報ファイルのパスを返します
func CredentialsPath() (string, error) {
	if p := os.Getenv("JIRA_CONFIG_PATH"); p != "" {
		return p, nil
	}
	p, err := homedir.Expand(defaultCredentialsFile)
	if err != nil {
		return "", errors.Wrap(err, "ホームディレクトリの取得に失敗しました")
	}
	return p, nil
}

func credentialsFromEnv() models.Credentials {
	return models.Credentials{
		Email: os.Getenv("JIRA_EMAIL"),
		Token: os.Getenv("JIRA_API_TOKEN"),
		URL:   strings.TrimRight(os.Getenv("JIRA_URL"), "/"),
	}
}

// デフォルト値付きで環境変数を整数として取得
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}
