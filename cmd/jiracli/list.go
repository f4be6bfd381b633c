package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jiracli/models"
	"jiracli/services"
)

func newListCmd() *cobra.Command {
	var (
		filter models.IssueFilter
		dueNow bool
		export bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "自分 (または指定ユーザー) のイシューを一覧表示する",
		Long: `自分 (または指定ユーザー) に割り当てられたイシューを一覧表示します。
作成日・ステータス・期日で絞り込み、CSVにエクスポートできます。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			issues, err := services.NewIssueService(cfg, client).ListIssues(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, color.GreenString("イシューは見つかりませんでした ✅"))
				return nil
			}

			now := time.Now()
			if dueNow {
				issues = services.FilterDueNow(issues, now)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, color.YellowString("条件に一致するイシューはありません。"))
				return nil
			}

			if export {
				filename := services.ExportFileName(filter, now)
				if err := services.WriteIssuesCSV(filename, issues); err != nil {
					return err
				}
				fmt.Fprintf(out, "📁 絞り込んだイシューを %s にエクスポートしました\n", filename)
			}

			fmt.Fprintln(out, color.GreenString("✅ %d 件のイシューが見つかりました。", len(issues)))
			renderIssues(out, issues)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filter.Assignee, "user", "u", "", "担当者 (ユーザー名またはメールアドレス) で絞り込む")
	flags.StringVarP(&filter.CreatedFrom, "date", "d", "", "作成日 (YYYY-MM-DD) 以降で絞り込む")
	flags.StringArrayVarP(&filter.Statuses, "status", "s", nil, "ステータスで絞り込む (複数指定可)")
	flags.BoolVar(&dueNow, "due-now", false, "期日が今日以前のイシューだけを表示する")
	flags.BoolVarP(&export, "export", "e", false, "結果をCSVにエクスポートする")
	return cmd
}
