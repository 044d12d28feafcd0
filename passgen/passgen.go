// Package passgen runs the rule-based password generation pipeline.
//
// A run has two halves. Prepare parses the rule string and estimates the
// output, producing a types.Plan that can be shown to the user. Execute
// generates every combination of the plan in parallel and merges the worker
// output, in index order, into the destination. Run chains the two around an
// optional Confirmer.
package passgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/passgen/passgen/estimate"
	"github.com/arthur-debert/passgen/passgen/generator"
	"github.com/arthur-debert/passgen/passgen/merge"
	"github.com/arthur-debert/passgen/passgen/rules"
	"github.com/arthur-debert/passgen/passgen/storage"
	"github.com/arthur-debert/passgen/passgen/wordlist"
	"github.com/arthur-debert/passgen/types"
)

// ErrAborted is returned when the Confirmer declines a plan
var ErrAborted = errors.New("operation aborted by user")

// Confirmer is shown every prepared plan before it is executed and decides
// whether to go ahead
type Confirmer interface {
	Confirm(ctx context.Context, plan *types.Plan) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, plan *types.Plan) (bool, error)

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, plan *types.Plan) (bool, error) {
	return f(ctx, plan)
}

// Engine executes generation runs for one Config
type Engine struct {
	cfg        Config
	fs         storage.FileSystem
	locks      storage.FileLockFactory
	logger     *slog.Logger
	echo       io.Writer
	rand       *rand.Rand
	confirmer  Confirmer
	timeFunc   func() time.Time
	installDir string
	tempDir    string
	warnings   []string
}

// New validates cfg and creates an Engine for it. A wordlist directory that
// does not exist is dropped and reported by Warnings.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		fs:       &storage.OSFileSystem{},
		locks:    &storage.FlockFactory{},
		logger:   slog.Default(),
		echo:     os.Stdout,
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.WordlistDir != "" {
		info, err := e.fs.Stat(cfg.WordlistDir)
		if err != nil || !info.IsDir() {
			e.warnings = append(e.warnings, fmt.Sprintf("wordlist directory not found: %s", cfg.WordlistDir))
			cfg.WordlistDir = ""
		}
	}
	e.cfg = cfg

	return e, nil
}

// Config returns the validated configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Warnings returns the problems New corrected in the configuration
func (e *Engine) Warnings() []string {
	return e.warnings
}

// Prepare parses the rules and estimates the output
func (e *Engine) Prepare(ctx context.Context) (*types.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loaderOpts := []wordlist.Option{
		wordlist.WithFileSystem(e.fs),
		wordlist.WithLogger(e.logger),
	}
	if e.installDir != "" {
		loaderOpts = append(loaderOpts, wordlist.WithInstallDir(e.installDir))
	}
	loader := wordlist.NewLoader(e.cfg.WordlistDir, loaderOpts...)

	rs, err := rules.NewParser(loader, rules.WithLogger(e.logger)).Parse(e.cfg.Rules)
	if err != nil {
		return nil, err
	}

	estOpts := []estimate.Option{estimate.WithLogger(e.logger)}
	if e.rand != nil {
		estOpts = append(estOpts, estimate.WithRand(e.rand))
	}
	est := estimate.New(estOpts...).Estimate(rs)

	workers := generator.EffectiveWorkers(uint64(generator.MaxWorkers), e.cfg.Processes)
	if est.Total.IsUint64() {
		workers = generator.EffectiveWorkers(est.Total.Uint64(), e.cfg.Processes)
	}

	e.logger.Info("prepared plan",
		"positions", rs.Len(),
		"total", est.Total.String(),
		"estimated_bytes", est.Bytes.String(),
		"workers", workers)

	return &types.Plan{
		RuleSet:    rs,
		Estimate:   est,
		Workers:    workers,
		OutputPath: e.cfg.OutputPath,
	}, nil
}

// Run prepares a plan, passes it to the Confirmer when one is set and
// executes it. The plan is returned even when execution fails.
func (e *Engine) Run(ctx context.Context) (*types.Plan, *types.Report, error) {
	plan, err := e.Prepare(ctx)
	if err != nil {
		return nil, nil, err
	}

	if e.confirmer != nil {
		ok, err := e.confirmer.Confirm(ctx, plan)
		if err != nil {
			return plan, nil, err
		}
		if !ok {
			return plan, nil, ErrAborted
		}
	}

	report, err := e.Execute(ctx, plan)
	return plan, report, err
}

// Execute generates and merges every combination of plan. On error or
// cancellation no worker output is left behind and the destination is
// untouched.
func (e *Engine) Execute(ctx context.Context, plan *types.Plan) (*types.Report, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	logger := e.logger.With("run", runID)
	started := e.timeFunc()

	sinks, cleanup, err := e.sinkFactory(runID)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	gen := generator.New(
		generator.WithSinkFactory(sinks),
		generator.WithLogger(logger),
	)
	out, err := gen.Run(ctx, plan.RuleSet, e.cfg.Processes)
	if err != nil {
		return nil, e.contextError(ctx, err)
	}
	logger.Debug("generation finished", "workers", out.Workers(), "records", out.Total())

	mergeOpts := []merge.Option{
		merge.WithFileSystem(e.fs),
		merge.WithFileLockFactory(e.locks),
		merge.WithLogger(logger),
		merge.WithTimeFunc(e.timeFunc),
	}
	if e.cfg.ShowPasswords {
		mergeOpts = append(mergeOpts, merge.WithEcho(e.echo))
	}
	res, err := merge.New(mergeOpts...).Merge(ctx, merge.Request{
		Sinks:      out.Sinks,
		OutputPath: plan.OutputPath,
		StartedAt:  started,
	})
	if err != nil {
		return nil, e.contextError(ctx, err)
	}

	report := &types.Report{
		RunID:       runID,
		Count:       res.Count,
		Workers:     out.Workers(),
		Elapsed:     res.Elapsed,
		OutputPath:  res.OutputPath,
		OutputBytes: res.OutputBytes,
	}
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}
	return report, nil
}

// sinkFactory returns the configured SinkFactory and a cleanup function for
// any directory created for it
func (e *Engine) sinkFactory(runID string) (generator.SinkFactory, func(), error) {
	kind, err := generator.ParseSinkKind(e.cfg.Sink)
	if err != nil {
		return nil, nil, err
	}
	if kind == generator.SinkMemory {
		return generator.MemorySinkFactory{}, func() {}, nil
	}

	dir, err := e.fs.MkdirTemp(e.tempDir, "passgen-"+runID+"-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create worker directory: %w", err)
	}
	cleanup := func() {
		if err := e.fs.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove worker directory", "path", dir, "error", err)
		}
	}
	return &generator.FileSinkFactory{FS: e.fs, Dir: dir, RunID: runID}, cleanup, nil
}

// contextError describes a timeout in terms of the configured limit
func (e *Engine) contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && e.cfg.Timeout > 0 {
		return fmt.Errorf("generation timed out after %s: %w", e.cfg.Timeout, err)
	}
	return err
}
