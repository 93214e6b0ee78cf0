package catalog

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// entityStore persists entities in a pebble keyspace keyed by their KSUID.
// It holds the durable copy of caller-owned entities only; the spatial index
// itself is never written out and is rebuilt from here on open.
type entityStore struct {
	db    *pebble.DB
	codec *RecordCodec
}

func openEntityStore(path string) (*entityStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("catalog: open entity store: %w", err)
	}
	return &entityStore{db: db, codec: NewRecordCodec()}, nil
}

func (s *entityStore) put(e *Entity) error {
	data, err := s.codec.Encode(e)
	if err != nil {
		return err
	}
	if err := s.db.Set(e.ID.Bytes(), data, pebble.NoSync); err != nil {
		return fmt.Errorf("catalog: persist entity %s: %w", e.ID, err)
	}
	return nil
}

func (s *entityStore) delete(id ksuid.KSUID) error {
	if err := s.db.Delete(id.Bytes(), pebble.NoSync); err != nil {
		return fmt.Errorf("catalog: delete entity %s: %w", id, err)
	}
	return nil
}

// each decodes every persisted entity in key order and hands it to fn.
func (s *entityStore) each(fn func(*Entity) error) error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("catalog: iterate entity store: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		e, err := s.codec.Decode(iter.Value())
		if err != nil {
			return fmt.Errorf("catalog: corrupt record at key %x: %w", iter.Key(), err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *entityStore) close() error {
	return s.db.Close()
}
