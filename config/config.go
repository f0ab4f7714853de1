package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	tmConfig "github.com/tendermint/tendermint/config"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// Config defines the top level configuration of a lottery node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	Lottery         *LotteryConfig                  `mapstructure:"lottery"`
	Instrumentation *tmConfig.InstrumentationConfig `mapstructure:"instrumentation"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Lottery:         DefaultLotteryConfig(),
		Instrumentation: tmConfig.DefaultInstrumentationConfig(),
	}
}

// GetConfig returns default config rooted at home, creating the directories and the config file if missing.
func GetConfig(home string) *Config {
	cfg := DefaultConfig()
	cfg.SetRoot(home)
	EnsureRoot(home)

	return cfg
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation and returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if cfg.Lottery == nil {
		return errors.New("lottery section is missing")
	}
	if _, err := cfg.Lottery.Params(); err != nil {
		return errors.Wrap(err, "error in [lottery] section")
	}

	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of a lottery node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON or YAML file with the initial state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	// Cron spec of state commits
	CommitSchedule string `mapstructure:"commit_schedule"`
}

// DefaultBaseConfig returns a default base configuration of a lottery node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:          defaultGenesisJSONPath,
		LogLevel:         DefaultPackageLogLevels(),
		LogFormat:        LogFormatPlain,
		LogPath:          "stdout",
		DBBackend:        "goleveldb",
		DBPath:           defaultDataDir,
		APIListenAddress: "tcp://0.0.0.0:8841",
		KeepLastStates:   120,
		StateCacheSize:   1000000,
		CommitSchedule:   "@every 5s",
	}
}

// GenesisFile returns the full path to the genesis file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return errors.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	if cfg.KeepLastStates < 1 {
		return errors.New("keep_last_states field should be greater than 0")
	}
	if _, err := cron.ParseStandard(cfg.CommitSchedule); err != nil {
		return errors.Wrap(err, "wrong commit_schedule")
	}

	return nil
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `token`, `api` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return fmt.Sprintf("main:info,token:info,api:info,*:%s", DefaultLogLevel())
}

//-----------------------------------------------------------------------------
// LotteryConfig

// LotteryConfig holds the constants of the tax and the three pools.
type LotteryConfig struct {
	TaxRate            uint64        `mapstructure:"tax_rate"`
	MinEligibleBalance string        `mapstructure:"min_eligible_balance"`
	GracePeriod        time.Duration `mapstructure:"grace_period"`

	ShortDuration  time.Duration `mapstructure:"short_duration"`
	MediumDuration time.Duration `mapstructure:"medium_duration"`
	LongDuration   time.Duration `mapstructure:"long_duration"`

	ShortShare  uint64 `mapstructure:"short_share"`
	MediumShare uint64 `mapstructure:"medium_share"`
	LongShare   uint64 `mapstructure:"long_share"`

	// Seed source of winner selection: state | random
	SeedSource string `mapstructure:"seed_source"`
}

func DefaultLotteryConfig() *LotteryConfig {
	params := types.DefaultLotteryParams()

	return &LotteryConfig{
		TaxRate:            params.TaxRate,
		MinEligibleBalance: params.MinEligibleBalance.Dec(),
		GracePeriod:        params.GracePeriod,
		ShortDuration:      params.Duration(types.CadenceShort),
		MediumDuration:     params.Duration(types.CadenceMedium),
		LongDuration:       params.Duration(types.CadenceLong),
		ShortShare:         params.Share(types.CadenceShort),
		MediumShare:        params.Share(types.CadenceMedium),
		LongShare:          params.Share(types.CadenceLong),
		SeedSource:         SeedSourceState,
	}
}

const (
	SeedSourceState  = "state"
	SeedSourceRandom = "random"
)

// Params converts the section into validated lottery params.
func (cfg *LotteryConfig) Params() (types.LotteryParams, error) {
	minBalance, err := uint256.FromDecimal(cfg.MinEligibleBalance)
	if err != nil {
		return types.LotteryParams{}, errors.Wrapf(err, "wrong min_eligible_balance %q", cfg.MinEligibleBalance)
	}

	switch cfg.SeedSource {
	case SeedSourceState, SeedSourceRandom:
	default:
		return types.LotteryParams{}, errors.Errorf("unknown seed_source %q", cfg.SeedSource)
	}

	params := types.LotteryParams{
		TaxRate:            cfg.TaxRate,
		MinEligibleBalance: minBalance,
		Durations:          [types.CadencesCount]time.Duration{cfg.ShortDuration, cfg.MediumDuration, cfg.LongDuration},
		Shares:             [types.CadencesCount]uint64{cfg.ShortShare, cfg.MediumShare, cfg.LongShare},
		GracePeriod:        cfg.GracePeriod,
	}

	return params, params.Validate()
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
