package utils

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	// InfoLogger は情報レベルのログを出力します
	InfoLogger *log.Logger
	// WarnLogger は警告レベルのログを出力します
	WarnLogger *log.Logger
	// ErrorLogger はエラーレベルのログを出力します
	ErrorLogger *log.Logger
)

// init関数はパッケージがインポートされたときに自動的に実行されます
func init() {
	InfoLogger = log.New(io.Discard, color.CyanString("INFO: "), log.Ldate|log.Ltime)
	WarnLogger = log.New(os.Stderr, color.YellowString("WARN: "), log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, color.RedString("ERROR: "), log.Ldate|log.Ltime)
}

// SetVerbose は情報レベルのログの出力先を切り替えます
func SetVerbose(verbose bool) {
	if verbose {
		InfoLogger.SetOutput(os.Stderr)
		return
	}
	InfoLogger.SetOutput(io.Discard)
}

// SetOutput はすべてのロガーの出力先をまとめて変更します (テスト用)
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}

// LogInfo は情報レベルのメッセージをログに記録します
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

// LogWarn は警告レベルのメッセージをログに記録します
func LogWarn(format string, v ...interface{}) {
	WarnLogger.Printf(format, v...)
}

// LogError はエラーレベルのメッセージをログに記録します
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

// TrackTime は関数の実行時間を計測して出力するユーティリティです
func TrackTime(start time.Time, name string) {
	elapsed := time.Since(start)
	LogInfo("%s 完了時間: %s", name, elapsed)
}
