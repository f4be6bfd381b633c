package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jiracli/services"
)

func newCreateCmd() *cobra.Command {
	var project, summary, description, issueType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "JIRAイシューを1件作成する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			key, url, err := services.NewIssueService(cfg, client).
				CreateIssue(cmd.Context(), project, summary, description, issueType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✅ イシュー %s を作成しました: %s", key, url))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&project, "project", "p", "", "プロジェクトキー")
	flags.StringVarP(&summary, "summary", "s", "", "サマリー")
	flags.StringVarP(&description, "description", "d", "", "説明")
	flags.StringVarP(&issueType, "type", "t", services.DefaultIssueType, "イシュータイプ")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}
