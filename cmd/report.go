package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/service"
)

var (
	reportFile   string
	reportRole   string
	reportViewer string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "读取 CSV 并以 JSON 输出看板统计",
	Example: `  sales_end report --file deals.csv
  sales_end report --file deals.csv --role salesman --viewer Agent-001`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFile, "file", "f", "-", "CSV 文件路径，- 表示标准输入")
	reportCmd.Flags().StringVar(&reportRole, "role", string(models.UserRoleMANAGER), "访问者角色: manager | salesman | customer-service")
	reportCmd.Flags().StringVar(&reportViewer, "viewer", "", "访问者ID")
}

func runReport(cmd *cobra.Command, args []string) error {
	role := models.UserRole(reportRole)
	if !role.IsValid() {
		return fmt.Errorf("无效的角色: %s", reportRole)
	}

	in, err := openInput(reportFile)
	if err != nil {
		return err
	}
	defer in.Close()

	deals, err := service.IngestCSV(in, time.Now())
	if err != nil {
		return err
	}

	metrics := service.Aggregate(service.FilterForViewer(deals, models.Viewer{ID: reportViewer, Role: role}))
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(metrics)
}
