package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jiracli/config"
	"jiracli/models"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "JIRAの認証情報を管理する",
	}
	cmd.AddCommand(
		newUserSetCmd(),
		newUserViewCmd(),
		newUserDeleteCmd(),
		newWhoamiCmd(),
	)
	return cmd
}

// credentialStore は設定から認証情報ストアを作成します
func credentialStore() (*config.CredentialStore, error) {
	cfg, err := config.Settings()
	if err != nil {
		return nil, err
	}
	return config.NewCredentialStore(cfg.CredentialsPath), nil
}

func newUserSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "認証情報を設定・更新する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentialStore()
			if err != nil {
				return err
			}

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			email, err := p.Ask("JIRAのメールアドレス")
			if err != nil {
				return err
			}
			token, err := p.AskSecret("JIRAのAPIトークン")
			if err != nil {
				return err
			}
			url, err := p.Ask("JIRAのサイトURL (例: https://yourname.atlassian.net)")
			if err != nil {
				return err
			}

			if err := store.Save(models.Credentials{Email: email, Token: token, URL: url}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✅ 認証情報を %s に保存しました", store.Path()))
			return nil
		},
	}
}

func newUserViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "保存された認証情報を表示する (トークンは伏せ字)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentialStore()
			if err != nil {
				return err
			}

			creds, err := store.View()
			if errors.Is(err, config.ErrNotConfigured) {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("⚠️ 認証情報がありません。先に `jiracli user set` を実行してください。"))
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📘 Email: %s\n", creds.Email)
			fmt.Fprintf(out, "🌐 URL: %s\n", creds.URL)
			fmt.Fprintf(out, "🔑 Token: %s\n", creds.Token)
			return nil
		},
	}
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "保存された認証情報を削除する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentialStore()
			if err != nil {
				return err
			}

			deleted, err := store.Delete()
			if err != nil {
				return err
			}
			if deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "🗑️ 保存された認証情報を削除しました。")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("⚠️ 削除する認証情報がありません。"))
			}
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "現在の認証ユーザーを確認する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			me, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			name := me.DisplayName
			if me.Email != "" {
				name = fmt.Sprintf("%s <%s>", me.DisplayName, me.Email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "👋 認証ユーザー: %s (%s)\n", name, cfg.Credentials.URL)
			return nil
		},
	}
}
