package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jiracli/models"
	"jiracli/services"
)

func newBulkCmd() *cobra.Command {
	var (
		csvPath  string
		project  string
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "CSVからJIRAイシューを一括作成する",
		Long: `CSVの各行からJIRAイシューを順番に作成します。

列: summary (必須), description, issuetype, parent, assignee
  parent   親イシューのサマリーまたはキー (サブタスクの場合のみ設定)
  assignee メールアドレスまたはアカウントID

既定では作成に失敗した行を記録して処理を続けます。--fail-fast を指定すると
最初の失敗で中断します。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := loadClient()
			if err != nil {
				return err
			}

			rows, err := services.ReadBulkCSV(csvPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📦 %s から %d 件のイシューを作成します...\n", csvPath, len(rows))

			policy := services.BestEffort
			if failFast {
				policy = services.FailFast
			}
			report, err := services.NewBulkService(client, policy).
				BulkCreate(cmd.Context(), rows, project, func(r models.RowResult) { printRowResult(out, r) })
			printBatchSummary(out, report)
			if err != nil {
				return err
			}
			if failed := len(report.Failed()); failed > 0 {
				return errors.Newf("%d 件のイシュー作成に失敗しました", failed)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&csvPath, "csv", "c", "", "CSVファイルのパス")
	flags.StringVarP(&project, "project", "p", "", "プロジェクトキー")
	flags.BoolVar(&failFast, "fail-fast", false, "最初の失敗で処理を中断する")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func printRowResult(w io.Writer, r models.RowResult) {
	if r.Err != nil {
		fmt.Fprintln(w, color.RedString("❌ 行 %d (%s): %v", r.Row, r.Summary, r.Err))
		return
	}
	fmt.Fprintln(w, color.GreenString("✅ %s %s を作成しました: %s", r.IssueType, r.Key, r.URL))
}

func printBatchSummary(w io.Writer, report *models.BatchReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(w, "完了: 成功=%d, 失敗=%d, 未処理=%d\n",
		report.Succeeded(), len(report.Failed()), report.Skipped())
}
