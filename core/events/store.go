package events

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
	Pending() Events
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db      db.DB
	pending pendingEvents
}

type pendingEvents struct {
	sync.Mutex
	items Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	registerCompact(codec)

	return &eventsStore{
		cdc:     codec,
		RWMutex: sync.RWMutex{},
		db:      db,
		pending: pendingEvents{},
	}
}

func (store *eventsStore) AddEvent(event Event) {
	store.pending.Lock()
	defer store.pending.Unlock()
	store.pending.items = append(store.pending.items, event)
}

// Pending returns events not yet committed to any height.
func (store *eventsStore) Pending() Events {
	store.pending.Lock()
	defer store.pending.Unlock()

	items := make(Events, len(store.pending.items))
	copy(items, store.pending.items)
	return items
}

func (store *eventsStore) CommitEvents(height uint32) error {
	store.pending.Lock()
	defer store.pending.Unlock()

	if len(store.pending.items) == 0 {
		return nil
	}

	data := make([]compact, 0, len(store.pending.items))
	for _, item := range store.pending.items {
		data = append(data, item.convert())
	}

	bytes, err := store.cdc.MarshalBinaryBare(data)
	if err != nil {
		return errors.Wrapf(err, "encode events at %d", height)
	}

	store.Lock()
	defer store.Unlock()
	if err := store.db.Set(uint32ToBytes(height), bytes); err != nil {
		return errors.Wrapf(err, "save events at %d", height)
	}

	store.pending.items = nil
	return nil
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	store.RLock()
	bytes, err := store.db.Get(uint32ToBytes(height))
	store.RUnlock()
	if err != nil {
		panic(err)
	}

	if len(bytes) == 0 {
		return Events{}
	}

	var items []compact
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	resultEvents := make(Events, 0, len(items))
	for _, item := range items {
		resultEvents = append(resultEvents, item.compile())
	}

	return resultEvents
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}
