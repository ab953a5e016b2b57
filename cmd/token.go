package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/sales_end/config"
	"github.com/BerniceZTT/sales_end/utils"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "为种子文件中的账号签发令牌，便于调试接口",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		utils.InitJWT(cfg.JWTKey)

		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		user, ok := seed.FindUser(tokenUser)
		if !ok {
			return fmt.Errorf("用户不存在: %s", tokenUser)
		}

		token, err := utils.GenerateToken(user)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "admin", "用户名")
}
