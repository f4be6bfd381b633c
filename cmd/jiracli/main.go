package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jiracli/api"
	"jiracli/config"
	"jiracli/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "jiracli",
		Short: "ターミナルからJIRAのイシューを管理するツール",
		Long: `jiracli はJIRAのイシューを一覧・エクスポート・作成するためのコマンドラインツールです。

認証情報は ~/.jira_config.toml (JIRA_CONFIG_PATH で変更可) に保存されます。
JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN がすべて設定されている場合はそちらを優先します。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetVerbose(verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "詳細なログを表示する")

	cmd.AddCommand(
		newUserCmd(),
		newListCmd(),
		newCreateCmd(),
		newBulkCmd(),
	)
	return cmd
}

// loadClient は設定を読み込み、JIRAクライアントを作成します
func loadClient() (config.Config, *api.JiraClient, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	client, err := api.NewJiraClient(cfg.Credentials)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, client, nil
}

// printError はエラーとヒントを表示します
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, color.RedString("❌ %v", err))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "👉 %s\n", hint)
	}
}
