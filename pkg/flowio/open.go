package flowio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SnappySuffix marks inputs and outputs stored as snappy framed streams.
const SnappySuffix = ".sz"

// Open returns a reader for a flow file. "-" reads stdin, names ending in
// SnappySuffix are decompressed on the fly, and everything else is
// memory-mapped.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	if strings.HasSuffix(path, SnappySuffix) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return &snappyFile{Reader: snappy.NewReader(f), file: f}, nil
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}
	return &mappedFile{
		SectionReader: io.NewSectionReader(m, 0, int64(m.Len())),
		mapping:       m,
	}, nil
}

type mappedFile struct {
	*io.SectionReader
	mapping *mmap.ReaderAt
}

func (m *mappedFile) Close() error {
	return m.mapping.Close()
}

type snappyFile struct {
	*snappy.Reader
	file *os.File
}

func (s *snappyFile) Close() error {
	return s.file.Close()
}
