package genesis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/pkg/errors"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"
	"gopkg.in/yaml.v3"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads genesis from a JSON file, or a YAML one when path ends with .yaml or .yml.
func Load(path string) (types.AppState, error) {
	var appState types.AppState

	data, err := os.ReadFile(path)
	if err != nil {
		return appState, errors.Wrap(err, "couldn't read genesis file")
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &appState)
	} else {
		err = tmjson.Unmarshal(data, &appState)
	}
	if err != nil {
		return appState, errors.Wrapf(err, "error reading genesis from %s", path)
	}

	if err := appState.Verify(); err != nil {
		return appState, errors.Wrap(err, "invalid genesis")
	}

	return appState, nil
}

// Write saves genesis in the format chosen by the path extension.
func Write(path string, appState types.AppState) error {
	var (
		data []byte
		err  error
	)

	if isYAML(path) {
		data, err = yaml.Marshal(appState)
	} else {
		data, err = tmjson.MarshalIndent(appState, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "couldn't encode genesis")
	}

	return tmos.WriteFile(path, data, 0644)
}
