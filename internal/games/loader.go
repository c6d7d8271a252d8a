package games

import (
	"fmt"
	"math"
	"path/filepath"
)

// Options controls how a dataset file is read.
type Options struct {
	// MaxRows limits rows decoded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// Loader reads GameRecords from one file format.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader based on filename and reads the dataset.
// A file without any data rows is an error.
func Load(path string, opt Options) (*Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			ds, err := l.Load(path, opt)
			if err != nil {
				return nil, err
			}
			if len(ds.Records) == 0 {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyDataset)
			}
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// rowSink accumulates decoded rows, shared by every loader.
type rowSink struct {
	ds      *Dataset
	idx     columnIndex
	maxRows int
}

func newRowSink(name string, header []string, opt Options) (*rowSink, error) {
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	return &rowSink{ds: &Dataset{Name: name}, idx: idx, maxRows: maxRows}, nil
}

func (s *rowSink) add(rec []string) error {
	if isBlank(rec) {
		return nil
	}
	s.ds.Rows++
	if len(s.ds.Records) >= s.maxRows {
		return nil
	}
	g, err := s.idx.decode(rec, s.ds.Rows)
	if err != nil {
		return err
	}
	s.ds.Records = append(s.ds.Records, g)
	return nil
}

func (s *rowSink) finish() *Dataset {
	if n := len(s.ds.Records); n < s.ds.Rows {
		s.ds.Warnings = append(s.ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", n, s.ds.Rows))
	}
	return s.ds
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
