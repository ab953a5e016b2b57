package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BerniceZTT/sales_end/utils"
)

// rootCmd 默认启动 HTTP 服务
var rootCmd = &cobra.Command{
	Use:   "sales_end",
	Short: "销售成交看板后端",
	Long: `销售成交看板后端：导入成交 CSV，按角色提供成交列表、统计看板、销售目标与通知。

不带子命令运行时等同于 serve。`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "sales_end" || cmd.Name() == "serve" {
			utils.InitLogger()
			return
		}
		// 其他子命令的结果写到标准输出，日志改走标准错误
		utils.InitLoggerWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd, tokenCmd)
}

// Execute 执行命令行
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
