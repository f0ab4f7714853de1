package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

var (
	LotteryHome   string
	LotteryConfig string
)

func GetLotteryHome() string {
	if LotteryHome != "" {
		return LotteryHome
	}

	home := os.Getenv("LOTTERYHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".minter-lottery"))
}

func GetLotteryConfigPath() string {
	if LotteryConfig != "" {
		return LotteryConfig
	}

	return filepath.Join(GetLotteryHome(), "config", "config.toml")
}

// Storage opens the databases of a node.
type Storage struct {
	dir     string
	backend dbm.BackendType

	stateDB  dbm.DB
	eventsDB dbm.DB
}

func NewStorage(dir string, backend string) *Storage {
	return &Storage{dir: dir, backend: dbm.BackendType(backend)}
}

func (s *Storage) InitStateDB() (dbm.DB, error) {
	db, err := dbm.NewDB("state", s.backend, s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "open state db")
	}

	s.stateDB = db
	return db, nil
}

func (s *Storage) InitEventsDB() (dbm.DB, error) {
	db, err := dbm.NewDB("events", s.backend, s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "open events db")
	}

	s.eventsDB = db
	return db, nil
}

func (s *Storage) Close() error {
	for _, db := range []dbm.DB{s.stateDB, s.eventsDB} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil {
			return err
		}
	}

	return nil
}
