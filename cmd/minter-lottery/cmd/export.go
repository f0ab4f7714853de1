package cmd

import (
	"path/filepath"

	"github.com/MinterTeam/minter-lottery/cmd/utils"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/genesis"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export state as a genesis file",
	RunE:  export,
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Join(cfg.RootDir, "export.json")
	}

	params, err := cfg.Lottery.Params()
	if err != nil {
		return err
	}

	storage := utils.NewStorage(cfg.DBDir(), cfg.DBBackend)
	defer storage.Close()

	stateDB, err := storage.InitStateDB()
	if err != nil {
		return err
	}

	if height == 0 {
		latest, err := state.NewState(0, stateDB, nil, cfg.StateCacheSize, 0, params)
		if err != nil {
			return errors.Wrap(err, "load latest state")
		}
		if latest.Height() == 0 {
			return errors.New("state is empty")
		}
		height = uint64(latest.Height())
	}

	cState, err := state.NewCheckStateAtHeight(height, stateDB, params)
	if err != nil {
		return errors.Wrapf(err, "load state at %d", height)
	}

	appState := cState.Export()
	if err := appState.Verify(); err != nil {
		return errors.Wrap(err, "exported state is inconsistent")
	}

	if err := genesis.Write(output, appState); err != nil {
		return err
	}

	cmd.Printf("State at height %d exported to %s\n", cState.Height(), output)
	return nil
}
