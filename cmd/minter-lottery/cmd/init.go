package cmd

import (
	"strings"
	"time"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/MinterTeam/minter-lottery/genesis"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var InitCommand = &cobra.Command{
	Use:   "init",
	Short: "Write genesis file with initial accounts",
	RunE:  initGenesis,
}

func initGenesis(cmd *cobra.Command, args []string) error {
	accounts, err := cmd.Flags().GetStringArray("account")
	if err != nil {
		return err
	}

	genesisTime, err := cmd.Flags().GetUint64("genesis-time")
	if err != nil {
		return err
	}
	if genesisTime == 0 {
		genesisTime = uint64(time.Now().Unix())
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	path := cfg.GenesisFile()
	if tmos.FileExists(path) && !force {
		return errors.Errorf("genesis file %s already exists", path)
	}

	appState, err := newAppState(genesisTime, accounts)
	if err != nil {
		return err
	}

	if err := genesis.Write(path, appState); err != nil {
		return err
	}

	cmd.Printf("Genesis written to %s\n", path)
	return nil
}

func newAppState(genesisTime uint64, accounts []string) (types.AppState, error) {
	appState := types.AppState{GenesisTime: genesisTime}

	for _, account := range accounts {
		address, balance, ok := strings.Cut(account, "=")
		if !ok {
			return types.AppState{}, errors.Errorf("wrong account %q, expected Mx...=balance", account)
		}

		addr, err := types.ParseAddress(address)
		if err != nil {
			return types.AppState{}, errors.Wrapf(err, "wrong account %q", account)
		}

		appState.Accounts = append(appState.Accounts, types.Account{Address: addr, Balance: balance})
	}

	return appState, appState.Verify()
}
