package roadnet

import (
	"encoding/binary"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

const (
	locationSlotBytes = 8
	locationPageSlots = 4096
	locationPageBytes = locationSlotBytes * locationPageSlots

	// 256 cached pages keep the hot working set around 8 MiB.
	defaultCachedPages = 256
)

type locationPage struct {
	data  []byte
	dirty bool
}

// SparseFileIndex is a disk-backed location index: a flat temporary file
// addressed by node id, holes left to the filesystem, with an LRU cache of
// fixed-size pages in front. Dirty pages are written back on eviction and on
// Close; the file is deleted when the index is closed.
type SparseFileIndex struct {
	file     *os.File
	pages    *lru.Cache[int64, *locationPage]
	flushErr error
}

// NewSparseFileIndex creates the backing file in dir (empty dir means the
// system temporary directory) with the given number of cached pages.
func NewSparseFileIndex(dir string, cachedPages int) (*SparseFileIndex, error) {
	if cachedPages < 1 {
		cachedPages = defaultCachedPages
	}
	file, err := os.CreateTemp(dir, "roadnet-locations-*.idx")
	if err != nil {
		return nil, errors.Wrap(err, "Can't create location index file")
	}
	index := &SparseFileIndex{
		file: file,
	}
	pages, err := lru.NewWithEvict[int64, *locationPage](cachedPages, index.writeBack)
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, errors.Wrap(err, "Can't create page cache")
	}
	index.pages = pages
	return index, nil
}

// writeBack flushes an evicted page to disk. Eviction happens inside cache
// Add/Purge calls which cannot return an error, so the first failure is kept
// and raised by the next Set or by Close.
func (index *SparseFileIndex) writeBack(pageNo int64, page *locationPage) {
	if !page.dirty {
		return
	}
	if _, err := index.file.WriteAt(page.data, pageNo*locationPageBytes); err != nil {
		if index.flushErr == nil {
			index.flushErr = errors.Wrap(err, "Can't write location page")
		}
		return
	}
	page.dirty = false
}

func (index *SparseFileIndex) page(pageNo int64) (*locationPage, error) {
	if page, ok := index.pages.Get(pageNo); ok {
		return page, nil
	}
	page := &locationPage{
		data: make([]byte, locationPageBytes),
	}
	_, err := index.file.ReadAt(page.data, pageNo*locationPageBytes)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "Can't read location page")
	}
	index.pages.Add(pageNo, page)
	return page, nil
}

// Set stores the coordinate for the given node
func (index *SparseFileIndex) Set(id osm.NodeID, pt GeoPoint) error {
	if index.flushErr != nil {
		return index.flushErr
	}
	if id < 0 {
		return errors.Errorf("Can't index negative node ID %d", id)
	}
	page, err := index.page(int64(id) / locationPageSlots)
	if err != nil {
		return err
	}
	offset := (int64(id) % locationPageSlots) * locationSlotBytes
	binary.LittleEndian.PutUint64(page.data[offset:offset+locationSlotBytes], packLocation(pt))
	page.dirty = true
	return index.flushErr
}

// Get returns the stored coordinate, if any. A slot that was never written
// reads as absent.
func (index *SparseFileIndex) Get(id osm.NodeID) (GeoPoint, bool) {
	if id < 0 || index.flushErr != nil {
		return GeoPoint{}, false
	}
	page, err := index.page(int64(id) / locationPageSlots)
	if err != nil {
		return GeoPoint{}, false
	}
	offset := (int64(id) % locationPageSlots) * locationSlotBytes
	packed := binary.LittleEndian.Uint64(page.data[offset : offset+locationSlotBytes])
	if packed == 0 {
		return GeoPoint{}, false
	}
	return unpackLocation(packed), true
}

// Close flushes dirty pages and removes the backing file
func (index *SparseFileIndex) Close() error {
	index.pages.Purge()
	firstErr := index.flushErr
	if err := index.file.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "Can't close location index file")
	}
	if err := os.Remove(index.file.Name()); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "Can't remove location index file")
	}
	return firstErr
}
