package roadnet

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Sink consumes a stream of OSM elements. Writes must arrive from a single
// goroutine; Close finalizes the output and must be called exactly once by the
// owner of the sink.
type Sink interface {
	Write(obj osm.Object) error
	Close() error
}

// XMLSink writes elements into an *.osm / *.xml file, optionally bzip2
// compressed when the name ends with .bz2. Elements appear in the output in
// the same order they were written.
type XMLSink struct {
	file    *os.File
	bzw     *bzip2.Writer
	target  io.Writer
	encoder *xml.Encoder
	closed  bool
}

// NewXMLSink creates the output file and writes the document header
func NewXMLSink(fileName string) (*XMLSink, error) {
	ext := filepath.Ext(fileName)
	if ext != ".osm" && ext != ".xml" && ext != ".bz2" {
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, fileName)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't create output file")
	}
	sink := &XMLSink{
		file:   file,
		target: file,
	}
	if ext == ".bz2" {
		bzw, err := bzip2.NewWriter(file, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			file.Close()
			return nil, errors.Wrap(err, "Can't prepare bzip2 writer")
		}
		sink.bzw = bzw
		sink.target = bzw
	}
	if _, err := io.WriteString(sink.target, xml.Header+"<osm version=\"0.6\" generator=\"roadnet\">\n"); err != nil {
		sink.closeWriters()
		return nil, errors.Wrap(err, "Can't write output header")
	}
	sink.encoder = xml.NewEncoder(sink.target)
	sink.encoder.Indent("  ", "  ")
	return sink, nil
}

// Write appends a single element to the output
func (sink *XMLSink) Write(obj osm.Object) error {
	switch element := obj.(type) {
	case *osm.Node, *osm.Way, *osm.Relation:
		if err := sink.encoder.Encode(element); err != nil {
			return errors.Wrap(err, "Can't encode element")
		}
	default:
		return fmt.Errorf("Element type '%s' is not handled yet", obj.ObjectID().Type())
	}
	return nil
}

// Close writes the document footer and releases the file
func (sink *XMLSink) Close() error {
	if sink.closed {
		return nil
	}
	sink.closed = true
	if err := sink.encoder.Flush(); err != nil {
		sink.closeWriters()
		return errors.Wrap(err, "Can't flush encoder")
	}
	if _, err := io.WriteString(sink.target, "\n</osm>\n"); err != nil {
		sink.closeWriters()
		return errors.Wrap(err, "Can't write output footer")
	}
	return sink.closeWriters()
}

func (sink *XMLSink) closeWriters() error {
	var firstErr error
	if sink.bzw != nil {
		if err := sink.bzw.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "Can't finalize bzip2 stream")
		}
	}
	if err := sink.file.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "Can't close output file")
	}
	return firstErr
}

// CollectSink gathers written elements in memory, mostly for tests
type CollectSink struct {
	Nodes     []*osm.Node
	Ways      []*osm.Way
	Relations []*osm.Relation
}

// Write stores the element in the matching bucket
func (sink *CollectSink) Write(obj osm.Object) error {
	switch element := obj.(type) {
	case *osm.Node:
		sink.Nodes = append(sink.Nodes, element)
	case *osm.Way:
		sink.Ways = append(sink.Ways, element)
	case *osm.Relation:
		sink.Relations = append(sink.Relations, element)
	default:
		return fmt.Errorf("Element type '%s' is not handled yet", obj.ObjectID().Type())
	}
	return nil
}

// Close is a no-op for the in-memory sink
func (sink *CollectSink) Close() error {
	return nil
}
