package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRoot(t *testing.T) {
	t.Parallel()
	home := t.TempDir()

	cfg := GetConfig(home)
	assert.Equal(t, home, cfg.RootDir)
	assert.Equal(t, filepath.Join(home, "config", "genesis.json"), cfg.GenesisFile())
	assert.Equal(t, filepath.Join(home, "data"), cfg.DBDir())

	v := viper.New()
	v.SetConfigFile(filepath.Join(home, defaultConfigFilePath))
	require.NoError(t, v.ReadInConfig())

	loaded := DefaultConfig()
	loaded.Lottery = &LotteryConfig{}
	require.NoError(t, v.Unmarshal(loaded))

	assert.Equal(t, DefaultLotteryConfig(), loaded.Lottery)
	assert.Equal(t, "@every 5s", loaded.CommitSchedule)
	assert.Equal(t, int64(120), loaded.KeepLastStates)
	require.NoError(t, loaded.ValidateBasic())
}

func TestLotteryConfig_Params(t *testing.T) {
	t.Parallel()

	params, err := DefaultLotteryConfig().Params()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultLotteryParams(), params)

	cfg := DefaultLotteryConfig()
	cfg.ShortShare = 90
	_, err = cfg.Params()
	assert.Error(t, err, "shares above 100")

	cfg = DefaultLotteryConfig()
	cfg.MinEligibleBalance = "abc"
	_, err = cfg.Params()
	assert.Error(t, err)

	cfg = DefaultLotteryConfig()
	cfg.ShortDuration = time.Millisecond
	_, err = cfg.Params()
	assert.Error(t, err)

	cfg = DefaultLotteryConfig()
	cfg.SeedSource = "oracle"
	_, err = cfg.Params()
	assert.Error(t, err)
}

func TestBaseConfig_ValidateBasic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.ValidateBasic())

	cfg.CommitSchedule = "every five seconds"
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig()
	cfg.KeepLastStates = 0
	assert.Error(t, cfg.ValidateBasic())

	cfg = DefaultConfig()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.ValidateBasic())
}
