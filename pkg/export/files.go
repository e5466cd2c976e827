package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-flowcore/pkg/visualization"
)

// File names inside the export directory, before the optional ".sz" suffix.
const (
	NodesFile         = "nodes.csv"
	EdgesFile         = "edges.csv"
	VisualizationFile = "visualization.json"
	SnappySuffix      = ".sz"
)

// Written describes one file produced by WriteFiles.
type Written struct {
	Path  string
	Bytes int64
}

type fileJob struct {
	name  string
	write func(io.Writer) error
}

// FileWriter writes the per-run export files into Dir.
type FileWriter struct {
	Dir      string
	Compress bool
}

// WriteFiles writes nodes.csv, edges.csv and, when viz is not nil,
// visualization.json. Files already written are reported even on error.
func (fw *FileWriter) WriteFiles(ds Dataset, viz *visualization.Visualization) ([]Written, error) {
	if err := os.MkdirAll(fw.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	jobs := []fileJob{
		{NodesFile, func(w io.Writer) error { return WriteNodes(w, ds) }},
		{EdgesFile, func(w io.Writer) error { return WriteEdges(w, ds) }},
	}
	if viz != nil {
		jobs = append(jobs, fileJob{VisualizationFile, func(w io.Writer) error {
			data, err := viz.ExportJSON()
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}})
	}

	written := make([]Written, 0, len(jobs))
	for _, job := range jobs {
		out, err := fw.writeFile(job.name, job.write)
		if err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

func (fw *FileWriter) writeFile(name string, write func(io.Writer) error) (Written, error) {
	if fw.Compress {
		name += SnappySuffix
	}
	path := filepath.Join(fw.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return Written{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	counter := &countingWriter{w: f}
	var (
		w     io.Writer
		flush func() error
	)
	if fw.Compress {
		sw := snappy.NewBufferedWriter(counter)
		w, flush = sw, sw.Close
	} else {
		bw := bufio.NewWriterSize(counter, 64*1024)
		w, flush = bw, bw.Flush
	}

	if err := write(w); err != nil {
		f.Close()
		return Written{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := flush(); err != nil {
		f.Close()
		return Written{}, fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Written{}, fmt.Errorf("failed to close %s: %w", path, err)
	}

	return Written{Path: path, Bytes: counter.n}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
