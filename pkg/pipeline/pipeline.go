// Package pipeline runs the full analysis for each flow capture: ingest,
// graph build, core decomposition, report and export.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-flowcore/pkg/algorithms"
	"github.com/dd0wney/cluso-flowcore/pkg/config"
	"github.com/dd0wney/cluso-flowcore/pkg/export"
	"github.com/dd0wney/cluso-flowcore/pkg/flowio"
	"github.com/dd0wney/cluso-flowcore/pkg/graph"
	"github.com/dd0wney/cluso-flowcore/pkg/logging"
	"github.com/dd0wney/cluso-flowcore/pkg/metrics"
	"github.com/dd0wney/cluso-flowcore/pkg/parallel"
	"github.com/dd0wney/cluso-flowcore/pkg/report"
	"github.com/dd0wney/cluso-flowcore/pkg/visualization"
)

// Run statuses recorded in metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Uploader copies exported files to object storage.
type Uploader interface {
	Upload(ctx context.Context, runID string, files []export.Written) ([]string, error)
}

// CoreSink stores per-host coreness rows.
type CoreSink interface {
	Write(ctx context.Context, ds export.Dataset) (int64, error)
}

// Deps are the collaborators of a Pipeline. Zero values are replaced with
// defaults by New.
type Deps struct {
	Logger   logging.Logger
	Metrics  *metrics.Registry
	Out      io.Writer // report destination
	Uploader Uploader
	CoreSink CoreSink
	NewRunID func() string
	Plain    bool
}

// Result is everything computed for one input.
type Result struct {
	RunID      string
	Input      string
	Stats      flowio.Stats
	Graph      *graph.Graph
	KCore      *algorithms.KCoreResult
	Triangles  *algorithms.TriangleCountResult
	Components *algorithms.ComponentResult
	Files      []export.Written
	Objects    []string
	RowsStored int64
	Duration   time.Duration
}

// Summary returns the report header for r.
func (r *Result) Summary() report.Summary {
	lines := r.Stats.Flows
	if r.Stats.HeaderSkipped {
		lines++
	}
	return report.Summary{
		Input:      r.Input,
		RunID:      r.RunID,
		Lines:      lines,
		Skipped:    r.Stats.Skipped,
		Vertices:   r.Graph.NumVertices(),
		Edges:      r.Graph.NumEdges(),
		Degeneracy: r.KCore.Degeneracy,
		Priority:   r.KCore.PriorityInCore(r.KCore.Degeneracy),
	}
}

// Pipeline analyses flow captures according to a Config.
type Pipeline struct {
	cfg    *config.Config
	deps   Deps
	logger logging.Logger
	outMu  sync.Mutex
}

// New creates a pipeline. cfg must already be validated.
func New(cfg *config.Config, deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.DefaultRegistry()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.NewRunID == nil {
		deps.NewRunID = uuid.NewString
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With(logging.Component("pipeline")),
	}
}

// Run analyses every input on cfg.Workers goroutines. Each input gets its own
// builder and graph. Results are returned in input order; a failed input
// leaves a nil entry and its error is joined into the returned error.
func (p *Pipeline) Run(ctx context.Context, inputs []string) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	dirs := inputDirs(p.cfg.Export.Dir, inputs)

	errs, err := parallel.Run(ctx, p.cfg.Workers, len(inputs), p.deps.Logger, func(ctx context.Context, i int) error {
		res, err := p.runFile(ctx, inputs[i], dirs[i])
		if err != nil {
			return fmt.Errorf("%s: %w", inputs[i], err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, errors.Join(errs...)
}

// RunFile opens path and analyses it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	return p.runFile(ctx, path, p.cfg.Export.Dir)
}

func (p *Pipeline) runFile(ctx context.Context, path, dir string) (*Result, error) {
	rc, err := flowio.Open(path)
	if err != nil {
		p.deps.Metrics.RecordRun(StatusError, 0)
		return nil, err
	}
	defer rc.Close()

	return p.analyzeTo(ctx, path, rc, dir)
}

// Analyze runs the whole pipeline over one flow stream.
func (p *Pipeline) Analyze(ctx context.Context, input string, r io.Reader) (*Result, error) {
	return p.analyzeTo(ctx, input, r, p.cfg.Export.Dir)
}

func (p *Pipeline) analyzeTo(ctx context.Context, input string, r io.Reader, dir string) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID: p.deps.NewRunID(),
		Input: input,
	}
	logger := p.logger.With(logging.RunID(res.RunID), logging.Input(input))

	err := p.analyze(ctx, logger, res, r, dir)
	res.Duration = time.Since(start)

	status := StatusOK
	if err != nil {
		status = StatusError
		logger.Error("run failed", logging.Error(err), logging.Latency(res.Duration))
	} else {
		logger.Info("run complete",
			logging.Vertices(res.Graph.NumVertices()),
			logging.Edges(res.Graph.NumEdges()),
			logging.Core(res.KCore.Degeneracy),
			logging.Latency(res.Duration),
		)
	}
	p.deps.Metrics.RecordRun(status, res.Duration)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) analyze(ctx context.Context, logger logging.Logger, res *Result, r io.Reader, dir string) error {
	name := filepath.Base(res.Input)

	reader, err := flowio.NewReader(r, p.cfg.Input.Columns)
	if err != nil {
		return err
	}

	timer := logging.StartTimer(logger, "ingest")
	builder := graph.NewBuilder()
	res.Stats, err = flowio.Ingest(ctx, reader, builder)
	ingestTime := timer.End(logging.Count(res.Stats.Flows))
	p.deps.Metrics.RecordIngest(name, res.Stats.Flows, res.Stats.Skipped, ingestTime)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	res.Graph, err = builder.Finalize()
	if err != nil {
		return err
	}
	p.deps.Metrics.RecordGraph(name, res.Graph.NumVertices(), res.Graph.NumEdges())

	timer = logging.StartTimer(logger, "core decomposition", logging.Vertices(res.Graph.NumVertices()))
	res.KCore = algorithms.DecomposeKCore(res.Graph)
	decompTime := timer.End(logging.Core(res.KCore.Degeneracy))
	p.deps.Metrics.RecordDecomposition(name, res.KCore.Degeneracy, res.KCore.PriorityInCore(res.KCore.Degeneracy), decompTime)

	if p.cfg.Analysis.Triangles {
		res.Triangles = algorithms.CountTriangles(res.Graph)
		logger.Debug("triangles counted", logging.Count(res.Triangles.GlobalCount))
	}
	if p.cfg.Analysis.Components {
		res.Components = algorithms.ConnectedComponents(res.Graph)
		largest := 0
		if c := res.Components.Largest(); c != nil {
			largest = c.Size
		}
		logger.Debug("components found",
			logging.Count(len(res.Components.Components)),
			logging.Int("largest", largest),
		)
	}

	if err := p.writeReport(res); err != nil {
		return err
	}

	return p.export(ctx, logger, res, dir)
}

func (p *Pipeline) writeReport(res *Result) error {
	var buf bytes.Buffer
	top := res.KCore.TopVertices(p.cfg.Analysis.TopN)
	if err := report.Write(&buf, res.Summary(), top, report.Options{TopN: p.cfg.Analysis.TopN, Plain: p.deps.Plain}); err != nil {
		return err
	}

	// Reports of concurrent runs are never interleaved
	p.outMu.Lock()
	defer p.outMu.Unlock()
	if _, err := p.deps.Out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (p *Pipeline) export(ctx context.Context, logger logging.Logger, res *Result, dir string) error {
	ds := export.Dataset{RunID: res.RunID, Graph: res.Graph, Coreness: res.KCore.Coreness}
	exp := p.cfg.Export

	if dir != "" {
		viz, err := p.visualize(ds)
		if err != nil {
			return err
		}

		fw := &export.FileWriter{Dir: dir, Compress: exp.Compress}
		res.Files, err = fw.WriteFiles(ds, viz)
		for _, f := range res.Files {
			p.deps.Metrics.RecordExport("file", f.Bytes, nil)
			logger.Debug("export written", logging.Path(f.Path), logging.Int64("bytes", f.Bytes))
		}
		if err != nil {
			p.deps.Metrics.RecordExport("file", 0, err)
			return fmt.Errorf("export failed: %w", err)
		}

		if p.deps.Uploader != nil {
			res.Objects, err = p.deps.Uploader.Upload(ctx, res.RunID, res.Files)
			for i := range res.Objects {
				p.deps.Metrics.RecordExport("s3", res.Files[i].Bytes, nil)
			}
			if err != nil {
				p.deps.Metrics.RecordExport("s3", 0, err)
				return fmt.Errorf("upload failed: %w", err)
			}
			logger.Info("export uploaded", logging.Count(len(res.Objects)))
		}
	}

	if p.deps.CoreSink != nil {
		n, err := p.deps.CoreSink.Write(ctx, ds)
		res.RowsStored = n
		if err != nil {
			p.deps.Metrics.RecordExport("postgres", 0, err)
			return fmt.Errorf("core sink failed: %w", err)
		}
		p.deps.Metrics.RecordExport("postgres", 0, nil)
		logger.Info("coreness stored", logging.Count(int(n)))
	}

	return nil
}

func (p *Pipeline) visualize(ds export.Dataset) (*visualization.Visualization, error) {
	exp := p.cfg.Export
	layout, err := visualization.NewLayout(exp.Layout, &visualization.LayoutConfig{
		Width:  exp.Width,
		Height: exp.Height,
		Seed:   1,
	}, ds.Coreness)
	if err != nil {
		return nil, err
	}

	filter := export.Filter{MinCore: exp.MinCore, IncludePriority: exp.IncludePriority}
	return visualization.Build(ds.Graph, ds.Coreness, filter.Select(ds), layout)
}

// inputDirs returns the export directory of each input. A single input
// exports into root itself. Several inputs each get a sub-directory named
// after the file without its compression suffix and last extension; a name
// already taken by an earlier input gets the input index appended.
func inputDirs(root string, inputs []string) []string {
	dirs := make([]string, len(inputs))
	if root == "" || len(inputs) == 1 {
		for i := range dirs {
			dirs[i] = root
		}
		return dirs
	}

	used := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		name := inputName(input)
		for n := i; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", inputName(input), n)
		}
		used[name] = true
		dirs[i] = filepath.Join(root, name)
	}
	return dirs
}

func inputName(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), flowio.SnappySuffix)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}
