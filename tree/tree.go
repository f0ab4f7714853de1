package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

type saver interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

// MTree mutable tree, used for txs delivery
type MTree interface {
	Commit(...saver) ([]byte, int64, error)
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	DeleteVersion(version int64) error
	AvailableVersions() []int
	Version() int64
	Hash() []byte
}

// NewMutableTree creates and returns new MutableTree using given db. Panics on error.
// If height is 0 the latest saved version is loaded.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	m := &mutableTree{
		tree: tree,
		db:   db,
	}

	if height == 0 {
		if _, err := tree.Load(); err != nil {
			return nil, err
		}

		return m, nil
	}

	if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	return m, nil
}

type mutableTree struct {
	tree *iavl.MutableTree
	db   dbm.DB

	lock sync.RWMutex
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.getLastImmutable()
}

func (t *mutableTree) getLastImmutable() *iavl.ImmutableTree {
	version := t.tree.Version()
	if version == 0 {
		return iavl.NewImmutableTree(t.db, 0)
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		panic(err)
	}

	return immutable
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

// Commit saves dirty data of every saver and creates a new version of the tree.
// Savers are switched to the just saved immutable tree.
func (t *mutableTree) Commit(savers ...saver) (hash []byte, version int64, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, s := range savers {
		if err := s.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err = t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable := t.getLastImmutable()
	for _, s := range savers {
		s.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

// Hash returns the hash of the latest saved version.
func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

// NewImmutableTree returns a read-only tree at the given version.
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		return iavl.NewImmutableTree(db, 0), nil
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, err
	}

	return tree.GetImmutable(int64(height))
}
