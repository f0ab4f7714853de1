package cmd

import (
	"testing"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppState(t *testing.T) {
	appState, err := newAppState(1600000000, []string{
		"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1=1000",
		"Mx0c5d5f646556d663e1eaf87150d987b67f5e3f41=5",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1600000000), appState.GenesisTime)
	require.Len(t, appState.Accounts, 2)
	assert.Equal(t, types.HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"), appState.Accounts[0].Address)
	assert.Equal(t, "1000", appState.Accounts[0].Balance)
}

func TestNewAppState_Invalid(t *testing.T) {
	for _, accounts := range [][]string{
		{"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"},
		{"0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1=1"},
		{"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1=ten"},
		{"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1=1", "Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1=2"},
	} {
		_, err := newAppState(1600000000, accounts)
		assert.Error(t, err, accounts)
	}
}
