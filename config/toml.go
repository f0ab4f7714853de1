package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/tendermint/libs/os"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

/****** these are for production settings ***********/

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and panics if it fails.
func EnsureRoot(rootDir string) {
	if err := tmos.EnsureDir(rootDir, 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), 0700); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), 0700); err != nil {
		panic(err.Error())
	}

	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)

	// Write default config file if missing.
	if !tmos.FileExists(configFilePath) {
		WriteConfigFile(configFilePath, DefaultConfig())
	}
}

// WriteConfigFile renders config using the template and writes it to configFilePath.
func WriteConfigFile(configFilePath string, config *Config) {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	tmos.MustWriteFile(configFilePath, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

##### main base config options #####

# Path to the JSON or YAML file with the initial state
genesis_file = "{{ js .BaseConfig.Genesis }}"

# Address to listen for API connections
api_listen_addr = "{{ .BaseConfig.APIListenAddress }}"

# Database backend: goleveldb | memdb
db_backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db_dir = "{{ js .BaseConfig.DBPath }}"

# Output level for logging, including package level options
log_level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log_format = "{{ .BaseConfig.LogFormat }}"

# Path to file for logs, "stdout" by default
log_path = "{{ .BaseConfig.LogPath }}"

# Number of committed states to keep on disk
keep_last_states = {{ .BaseConfig.KeepLastStates }}

# State cache size
state_cache_size = {{ .BaseConfig.StateCacheSize }}

# Cron spec of state commits, e.g. "@every 5s" or "*/1 * * * *"
commit_schedule = "{{ .BaseConfig.CommitSchedule }}"

##### lottery configuration options #####
[lottery]

# Percent of every transfer withheld as tax
tax_rate = {{ .Lottery.TaxRate }}

# Minimum balance to take part in the lottery
min_eligible_balance = "{{ .Lottery.MinEligibleBalance }}"

# Delay of the first draw after genesis
grace_period = "{{ .Lottery.GracePeriod }}"

# Cadences of the three pools
short_duration = "{{ .Lottery.ShortDuration }}"
medium_duration = "{{ .Lottery.MediumDuration }}"
long_duration = "{{ .Lottery.LongDuration }}"

# Percent of the tax credited to each pool, must sum up to 100 or less
short_share = {{ .Lottery.ShortShare }}
medium_share = {{ .Lottery.MediumShare }}
long_share = {{ .Lottery.LongShare }}

# Seed source of winner selection: state | random
seed_source = "{{ .Lottery.SeedSource }}"

##### instrumentation configuration options #####
[instrumentation]

# When true, Prometheus metrics are served under /metrics on
# PrometheusListenAddr.
# Check out the documentation for the list of available metrics.
prometheus = {{ .Instrumentation.Prometheus }}

# Address to listen for Prometheus collector(s) connections
prometheus_listen_addr = "{{ .Instrumentation.PrometheusListenAddr }}"

# Maximum number of simultaneous connections.
# If you want to accept a larger number than the default, make sure
# you increase your OS limits.
# 0 - unlimited.
max_open_connections = {{ .Instrumentation.MaxOpenConnections }}

# Instrumentation namespace
namespace = "{{ .Instrumentation.Namespace }}"
`
