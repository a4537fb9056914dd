package roadnet

import (
	"encoding/binary"
	"os"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

const levelDBBatchSize = 50000

// LevelDBIndex stores node locations in a throwaway LevelDB database. Writes
// are batched; a pending batch is flushed before any read. The database
// directory is created under dir (empty dir means the system temporary
// directory) and removed on Close.
type LevelDBIndex struct {
	db      *leveldb.DB
	dir     string
	batch   *leveldb.Batch
	pending int
	readErr error
}

// NewLevelDBIndex opens a fresh LevelDB database for location storage
func NewLevelDBIndex(dir string) (*LevelDBIndex, error) {
	dbDir, err := os.MkdirTemp(dir, "roadnet-locations-*")
	if err != nil {
		return nil, errors.Wrap(err, "Can't create location index directory")
	}
	db, err := leveldb.OpenFile(dbDir, nil)
	if err != nil {
		os.RemoveAll(dbDir)
		return nil, errors.Wrap(err, "Can't open location index database")
	}
	return &LevelDBIndex{
		db:    db,
		dir:   dbDir,
		batch: new(leveldb.Batch),
	}, nil
}

func levelDBKey(id osm.NodeID) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (index *LevelDBIndex) flush() error {
	if index.pending == 0 {
		return nil
	}
	if err := index.db.Write(index.batch, nil); err != nil {
		return errors.Wrap(err, "Can't write location batch")
	}
	index.batch.Reset()
	index.pending = 0
	return nil
}

// Set stores the coordinate for the given node
func (index *LevelDBIndex) Set(id osm.NodeID, pt GeoPoint) error {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, packLocation(pt))
	index.batch.Put(levelDBKey(id), value)
	index.pending++
	if index.pending >= levelDBBatchSize {
		return index.flush()
	}
	return nil
}

// Get returns the stored coordinate, if any. Read failures other than a
// missing key are kept and raised by Close.
func (index *LevelDBIndex) Get(id osm.NodeID) (GeoPoint, bool) {
	if err := index.flush(); err != nil {
		if index.readErr == nil {
			index.readErr = err
		}
		return GeoPoint{}, false
	}
	value, err := index.db.Get(levelDBKey(id), nil)
	if err == leveldb.ErrNotFound {
		return GeoPoint{}, false
	}
	if err != nil {
		if index.readErr == nil {
			index.readErr = errors.Wrap(err, "Can't read location")
		}
		return GeoPoint{}, false
	}
	if len(value) != 8 {
		return GeoPoint{}, false
	}
	packed := binary.LittleEndian.Uint64(value)
	if packed == 0 {
		return GeoPoint{}, false
	}
	return unpackLocation(packed), true
}

// Close closes the database and removes its directory
func (index *LevelDBIndex) Close() error {
	firstErr := index.readErr
	if err := index.db.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "Can't close location index database")
	}
	if err := os.RemoveAll(index.dir); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "Can't remove location index directory")
	}
	return firstErr
}
