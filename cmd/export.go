package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/sales_end/service"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "归一化 CSV 并以标准表头输出到标准输出",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(exportFile)
		if err != nil {
			return err
		}
		defer in.Close()

		deals, err := service.IngestCSV(in, time.Now())
		if err != nil {
			return err
		}
		return service.ExportCSV(cmd.OutOrStdout(), deals)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "-", "CSV 文件路径，- 表示标准输入")
}
