package cmd

import (
	"github.com/MinterTeam/minter-lottery/cmd/utils"
	"github.com/MinterTeam/minter-lottery/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "minter-lottery",
	Short: "Minter Lottery Token",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetConfigFile(utils.GetLotteryConfigPath())
		cfg = config.GetConfig(utils.GetLotteryHome())

		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}

		if err := v.Unmarshal(cfg); err != nil {
			return errors.Wrap(err, "parse config")
		}

		return cfg.ValidateBasic()
	},
}
