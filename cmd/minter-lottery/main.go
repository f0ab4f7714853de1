package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MinterTeam/minter-lottery/cmd/minter-lottery/cmd"
	"github.com/MinterTeam/minter-lottery/cmd/utils"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.LotteryHome, "home-dir", "", "base dir (default is $HOME/.minter-lottery)")
	rootCmd.PersistentFlags().StringVar(&utils.LotteryConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	cmd.ExportCommand.Flags().Uint64("height", 0, "height to export, latest if zero")
	cmd.ExportCommand.Flags().String("output", "", "output file, stdout if empty")

	cmd.InitCommand.Flags().StringArray("account", nil, "genesis account as Mx...=balance")
	cmd.InitCommand.Flags().Uint64("genesis-time", 0, "genesis unix time (default is now)")
	cmd.InitCommand.Flags().Bool("force", false, "overwrite existing genesis file")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.InitCommand,
		cmd.ExportCommand,
		cmd.Version)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
