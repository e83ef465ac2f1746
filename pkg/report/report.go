// Package report runs a rule set over a batch of files and assembles the
// entity/module/element by file grid a renderer consumes.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/extract"
	"github.com/jpfielding/ophdicom.go/pkg/util"
)

// ErrNoFiles is returned when a report is requested for an empty batch
var ErrNoFiles = errors.New("no files to report")

// Cell is one element of one file
type Cell struct {
	Display string             `json:"display"`
	Values  []string           `json:"values"`
	Outcome compliance.Outcome `json:"outcome"`
}

// Row is one element occurrence of the rule set, in table order
type Row struct {
	Entity    string `json:"entity"`
	Module    string `json:"module"`
	Reference string `json:"reference"`
	Tag       string `json:"tag"`
	Name      string `json:"name"`
	VR        string `json:"vr"`
	Cells     []Cell `json:"cells"`
}

// Failure records a file dropped from the grid
type Failure struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.File, f.Err)
}

// Report is the output of one rule set over one batch. Files, Outcomes,
// Extras and every Row's Cells share the same column order.
type Report struct {
	ID       string                `json:"id"`
	Key      string                `json:"key"`
	Name     string                `json:"name"`
	Files    []string              `json:"files"`
	Rows     []Row                 `json:"rows"`
	Outcomes []compliance.Outcomes `json:"outcomes"`
	Extras   []*extract.Dataset    `json:"extras"`
	Failures []Failure             `json:"failures,omitempty"`
}

type builder struct {
	workers  int
	timeout  time.Duration
	adapter  *extract.Adapter
	evalOpts []compliance.EvalOption
}

// Option configures Build and Load
type Option func(*builder)

// WithWorkers bounds the number of files decoded at once
func WithWorkers(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithTimeout bounds the time spent decoding a single file
func WithTimeout(d time.Duration) Option {
	return func(b *builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithAdapter sets the extraction adapter, e.g. one with a custom registry
func WithAdapter(a *extract.Adapter) Option {
	return func(b *builder) {
		if a != nil {
			b.adapter = a
		}
	}
}

// WithEvalOptions passes options through to compliance.Evaluate
func WithEvalOptions(opts ...compliance.EvalOption) Option {
	return func(b *builder) {
		b.evalOpts = append(b.evalOpts, opts...)
	}
}

func newBuilder(opts []Option) *builder {
	b := &builder{workers: runtime.NumCPU(), timeout: time.Minute}
	for _, opt := range opts {
		opt(b)
	}
	if b.adapter == nil {
		b.adapter = extract.New(nil)
	}
	return b
}

// Batch is a decoded set of files in caller order; failed files are left out
type Batch struct {
	Datasets []*extract.Dataset
	Failures []Failure
}

// Load decodes files in parallel. Per file failures are recorded and logged
// and never abort the batch; only cancellation of ctx does.
func Load(ctx context.Context, files []string, opts ...Option) (*Batch, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	b := newBuilder(opts)

	slots := make([]*extract.Dataset, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i], errs[i] = b.loadOne(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{}
	for i, f := range files {
		if errs[i] != nil {
			slog.WarnContext(ctx, "skipping file", "file", f, "error", errs[i])
			batch.Failures = append(batch.Failures, Failure{File: f, Err: errs[i]})
			continue
		}
		batch.Datasets = append(batch.Datasets, slots[i])
	}
	slog.DebugContext(ctx, "loaded batch", "files", len(files), "failed", len(batch.Failures))
	return batch, nil
}

// loadOne bounds a decode by the per file timeout. The reader stops at the
// next element once ctx is done, so a timed out decode can outlive its
// worker slot only while it is blocked inside a single read.
func (b *builder) loadOne(ctx context.Context, path string) (*extract.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		ds  *extract.Dataset
		err error
	}
	done := make(chan result, 1)
	go func() {
		ds, err := b.adapter.Load(ctx, path)
		done <- result{ds, err}
	}()
	select {
	case r := <-done:
		return r.ds, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", path, ctx.Err())
	}
}

// Build decodes files and assembles the report for rs
func Build(ctx context.Context, rs *compliance.RuleSet, files []string, opts ...Option) (*Report, error) {
	batch, err := Load(ctx, files, opts...)
	if err != nil {
		return nil, err
	}
	rep := Assemble(rs, batch.Datasets, opts...)
	rep.Failures = append(rep.Failures, batch.Failures...)
	return rep, nil
}

// Assemble evaluates already decoded files against rs
func Assemble(rs *compliance.RuleSet, datasets []*extract.Dataset, opts ...Option) *Report {
	b := newBuilder(opts)
	tags := rs.Tags()
	wanted := append(rs.Tags(), rs.Premises()...)

	rep := &Report{
		Key:      rs.Key,
		Name:     rs.Name,
		Files:    make([]string, len(datasets)),
		Outcomes: make([]compliance.Outcomes, len(datasets)),
		Extras:   make([]*extract.Dataset, len(datasets)),
	}
	views := make([]*extract.Dataset, len(datasets))
	for i, ds := range datasets {
		rep.Files[i] = ds.Path
		views[i] = ds.Only(wanted)
		rep.Outcomes[i] = compliance.Evaluate(rs, views[i], b.evalOpts...)
		rep.Extras[i] = ds.Except(tags)
	}
	rep.ID = util.HashUUID(struct {
		Key   string
		Files []string
	}{rs.Key, rep.Files})

	for _, ref := range rs.Refs() {
		el := ref.Element
		row := Row{
			Entity:    ref.Entity,
			Module:    ref.Module,
			Reference: ref.Reference,
			Tag:       el.Tag,
			Name:      el.Name,
			VR:        el.VR,
			Cells:     make([]Cell, len(datasets)),
		}
		for i := range datasets {
			vals, _ := views[i].Lookup(el.Tag)
			o := rep.Outcomes[i][el.Tag]
			row.Cells[i] = Cell{Display: Label(o, vals), Values: vals, Outcome: o}
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

// FileSummary tallies one column of a report
type FileSummary struct {
	File   string                     `json:"file"`
	Counts map[compliance.Outcome]int `json:"counts"`
	Errors int                        `json:"errors"`
}

// Summary counts outcomes per file, one entry per distinct tag
func (r *Report) Summary() []FileSummary {
	out := make([]FileSummary, len(r.Files))
	for i, f := range r.Files {
		s := FileSummary{File: f, Counts: r.Outcomes[i].Count()}
		for o, n := range s.Counts {
			if o.IsError() {
				s.Errors += n
			}
		}
		out[i] = s
	}
	return out
}

// Errors is the number of error class cells across the report
func (r *Report) Errors() int {
	n := 0
	for _, s := range r.Summary() {
		n += s.Errors
	}
	return n
}
