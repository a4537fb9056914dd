package roadnet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

const defaultScannerProcs = 4

// OSMScanner matches both PBF and XML scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// ScanFilter tells a source which element types the caller does not need.
// Skipping is an optimization only, filtered iteration sees the same elements
// in the same order either way.
type ScanFilter struct {
	SkipNodes     bool
	SkipWays      bool
	SkipRelations bool
}

// Source is an ordered stream of OSM elements. Iterate delivers every element
// in file order and can be called repeatedly, each call starts the stream over.
// Returning an error from the callback aborts the iteration and surfaces that
// error to the caller.
type Source interface {
	Iterate(ctx context.Context, filter ScanFilter, fn func(obj osm.Object) error) error
}

// FileSource reads elements from an *.osm.pbf, *.osm / *.xml or *.osm.bz2 file.
// Every Iterate opens the file again, so multi-pass algorithms work on
// compressed inputs where seeking is not an option.
type FileSource struct {
	filename string
	procs    int
}

// NewFileSource creates a source for the given file
func NewFileSource(fileName string, options ...func(*FileSource)) *FileSource {
	src := &FileSource{
		filename: fileName,
		procs:    defaultScannerProcs,
	}
	for _, option := range options {
		option(src)
	}
	return src
}

// WithScannerProcs sets the number of decoding goroutines for PBF inputs.
// Objects are still delivered strictly in file order.
func WithScannerProcs(procs int) func(*FileSource) {
	return func(src *FileSource) {
		if procs > 0 {
			src.procs = procs
		}
	}
}

// Filename returns the underlying file path
func (src *FileSource) Filename() string {
	return src.filename
}

// Iterate opens the file and streams its elements through fn
func (src *FileSource) Iterate(ctx context.Context, filter ScanFilter, fn func(obj osm.Object) error) error {
	file, err := os.Open(src.filename)
	if err != nil {
		return errors.Wrap(err, "Can't open OSM file")
	}
	defer file.Close()

	var scanner OSMScanner
	ext := filepath.Ext(src.filename)
	switch ext {
	case ".osm", ".xml":
		scanner = osmxml.New(ctx, file)
	case ".pbf":
		pbfScanner := osmpbf.New(ctx, file, src.procs)
		pbfScanner.SkipNodes = filter.SkipNodes
		pbfScanner.SkipWays = filter.SkipWays
		pbfScanner.SkipRelations = filter.SkipRelations
		scanner = pbfScanner
	case ".bz2":
		decompressed, err := bzip2.NewReader(file, nil)
		if err != nil {
			return errors.Wrap(err, "Can't prepare bzip2 reader")
		}
		defer decompressed.Close()
		scanner = osmxml.New(ctx, decompressed)
	default:
		return fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, src.filename)
	}
	defer scanner.Close()

	for scanner.Scan() {
		obj := scanner.Object()
		switch obj.ObjectID().Type() {
		case osm.TypeNode:
			if filter.SkipNodes {
				continue
			}
		case osm.TypeWay:
			if filter.SkipWays {
				continue
			}
		case osm.TypeRelation:
			if filter.SkipRelations {
				continue
			}
		default:
			continue
		}
		if err := fn(obj); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "Can't scan OSM data")
	}
	return nil
}

// SliceSource serves elements from memory. Useful for tests and for feeding
// synthetic networks through the same pipeline as file data.
type SliceSource struct {
	Objects []osm.Object
}

// NewSliceSource wraps the given elements into a source
func NewSliceSource(objects ...osm.Object) *SliceSource {
	return &SliceSource{Objects: objects}
}

// Iterate replays the wrapped elements in order
func (src *SliceSource) Iterate(ctx context.Context, filter ScanFilter, fn func(obj osm.Object) error) error {
	for _, obj := range src.Objects {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch obj.ObjectID().Type() {
		case osm.TypeNode:
			if filter.SkipNodes {
				continue
			}
		case osm.TypeWay:
			if filter.SkipWays {
				continue
			}
		case osm.TypeRelation:
			if filter.SkipRelations {
				continue
			}
		default:
			continue
		}
		if err := fn(obj); err != nil {
			return err
		}
	}
	return nil
}
