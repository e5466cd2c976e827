package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-flowcore/pkg/algorithms"
	"github.com/dd0wney/cluso-flowcore/pkg/graph"
	"github.com/dd0wney/cluso-flowcore/pkg/visualization"
)

// sampleDataset: A-B twice, B-C botnet, C self-loop, D isolated-ish pendant of C.
func sampleDataset(t *testing.T) Dataset {
	t.Helper()
	b := graph.NewBuilder()
	require.NoError(t, b.AddEdge("A", "B", "Normal"))
	require.NoError(t, b.AddEdge("A", "B", "Normal"))
	require.NoError(t, b.AddEdge("B", "C", "Botnet-CC"))
	require.NoError(t, b.AddEdge("C", "C", "Botnet-CC"))
	require.NoError(t, b.AddEdge("C", "D", "Normal"))
	g, err := b.Finalize()
	require.NoError(t, err)

	return Dataset{RunID: "run-1", Graph: g, Coreness: algorithms.CoreNumbers(g)}
}

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return records
}

func TestFilter(t *testing.T) {
	ds := sampleDataset(t)
	// coreness: A=2, B=2, C=2 (self-loop), D=1

	assert.Equal(t, []int{0, 1, 2}, Filter{MinCore: 1}.Select(ds))
	assert.Equal(t, []int{}, Filter{MinCore: 5}.Select(ds))
	assert.Equal(t, []int{1, 2}, Filter{MinCore: 5, IncludePriority: true}.Select(ds))
	assert.Equal(t, []int{0, 1, 2, 3}, Filter{MinCore: 0}.Select(ds))
}

func TestWriteNodes(t *testing.T) {
	ds := sampleDataset(t)

	var buf bytes.Buffer
	require.NoError(t, WriteNodes(&buf, ds))

	records := readCSV(t, &buf)
	require.Len(t, records, 5)
	assert.Equal(t, nodesHeader, records[0])
	assert.Equal(t, []string{"0", "A", "Normal", "2", "2"}, records[1])
	assert.Equal(t, []string{"1", "B", "Botnet-CC", "2", "3"}, records[2])
	assert.Equal(t, []string{"2", "C", "Botnet-CC", "2", "4"}, records[3])
	assert.Equal(t, []string{"3", "D", "Normal", "1", "1"}, records[4])
}

func TestWriteEdges(t *testing.T) {
	ds := sampleDataset(t)

	var buf bytes.Buffer
	require.NoError(t, WriteEdges(&buf, ds))

	records := readCSV(t, &buf)
	want := [][]string{
		edgesHeader,
		{"0", "1", "2"},
		{"1", "2", "1"},
		{"2", "3", "1"},
		{"2", "2", "1"},
	}
	assert.Equal(t, want, records)
}

func TestFileWriter_Plain(t *testing.T) {
	ds := sampleDataset(t)
	dir := filepath.Join(t.TempDir(), "out")

	viz, err := visualization.Build(ds.Graph, ds.Coreness, Filter{MinCore: 1}.Select(ds),
		visualization.NewCircularLayout(&visualization.LayoutConfig{Width: 100, Height: 100}, ds.Coreness))
	require.NoError(t, err)

	fw := &FileWriter{Dir: dir}
	written, err := fw.WriteFiles(ds, viz)
	require.NoError(t, err)
	require.Len(t, written, 3)

	for _, w := range written {
		info, err := os.Stat(w.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), w.Bytes, w.Path)
	}

	data, err := os.ReadFile(filepath.Join(dir, NodesFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,label,category,k_core,degree\n"))

	data, err = os.ReadFile(filepath.Join(dir, VisualizationFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes"`)
}

func TestFileWriter_Compressed(t *testing.T) {
	ds := sampleDataset(t)
	dir := t.TempDir()

	written, err := (&FileWriter{Dir: dir, Compress: true}).WriteFiles(ds, nil)
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, filepath.Join(dir, EdgesFile+SnappySuffix), written[1].Path)

	f, err := os.Open(written[1].Path)
	require.NoError(t, err)
	defer f.Close()

	records := readCSV(t, snappy.NewReader(f))
	assert.Equal(t, edgesHeader, records[0])
	assert.Len(t, records, 5)
}

type fakePutter struct {
	keys   []string
	bodies map[string]string
	types  map[string]string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	f.keys = append(f.keys, key)
	f.bodies[key] = string(body)
	f.types[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader(t *testing.T) {
	ds := sampleDataset(t)
	written, err := (&FileWriter{Dir: t.TempDir()}).WriteFiles(ds, nil)
	require.NoError(t, err)

	putter := &fakePutter{bodies: map[string]string{}, types: map[string]string{}}
	u := NewS3UploaderWithClient(putter, "captures", "/flowcore/")

	keys, err := u.Upload(context.Background(), "run-1", written)
	require.NoError(t, err)
	assert.Equal(t, []string{"flowcore/run-1/nodes.csv", "flowcore/run-1/edges.csv"}, keys)
	assert.Equal(t, keys, putter.keys)
	assert.Equal(t, "text/csv", putter.types["flowcore/run-1/nodes.csv"])
	assert.True(t, strings.HasPrefix(putter.bodies["flowcore/run-1/edges.csv"], "source,target,count\n"))
}

func TestS3Uploader_Error(t *testing.T) {
	boom := errors.New("access denied")
	u := NewS3UploaderWithClient(&fakePutter{err: boom}, "captures", "")

	path := filepath.Join(t.TempDir(), NodesFile)
	require.NoError(t, os.WriteFile(path, []byte("id\n"), 0o644))

	keys, err := u.Upload(context.Background(), "run-2", []Written{{Path: path, Bytes: 3}})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, keys)
	assert.Equal(t, "run-2/nodes.csv", u.ObjectKey("run-2", path))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("visualization.json"))
	assert.Equal(t, "application/x-snappy-framed", contentType("nodes.csv.sz"))
	assert.Equal(t, "application/octet-stream", contentType("graph.bin"))
}

func TestCoreRows(t *testing.T) {
	ds := sampleDataset(t)

	rows := CoreRows(ds)
	require.Len(t, rows, 4)
	assert.Equal(t, []any{"run-1", int64(1), "B", "Botnet-CC", int64(3), int64(2)}, rows[1])
	for _, row := range rows {
		assert.Len(t, row, len(coreColumns))
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL(pgx.Identifier{"host_coreness"})
	assert.Contains(t, sql, `CREATE TABLE IF NOT EXISTS "host_coreness"`)
	assert.Contains(t, sql, `"host_coreness_core_idx"`)
}
