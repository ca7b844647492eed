package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sdtrack/internal/config"
	"sdtrack/internal/history"
	"sdtrack/internal/indexer"
	"sdtrack/internal/logging"
	"sdtrack/internal/naming"
	"sdtrack/internal/reference"
	"sdtrack/internal/tags"
	"sdtrack/internal/target"
)

// Request describes a single run.
type Request struct {
	Source string
	// Target is the flat destination directory. Dry runs accept an empty target.
	Target string
	// Clear empties Target before copying so numbering starts at 0001.
	Clear bool
	// DryRun computes assignments without writing anything to Target.
	DryRun bool
	// ReadTags annotates each track with its embedded title and artist.
	ReadTags bool
	// NoHistory skips the run ledger even when it is enabled in config.
	NoHistory bool
}

// Track is an assignment plus the tag metadata read for it.
type Track struct {
	indexer.Assignment
	Tags tags.Info
}

// Result summarizes a run. On failure it holds everything assigned before the error.
type Result struct {
	RunID         string
	Source        string
	Target        string
	Eligible      int
	Tracks        []Track
	Skipped       []string
	Cleared       int
	Table         *reference.Table
	ReferencePath string
	Duration      time.Duration
}

// Observer receives progress as a run advances.
type Observer interface {
	indexer.Observer
	Started(eligible int)
}

// Recorder executes runs against a loaded configuration.
type Recorder struct {
	cfg      *config.Config
	logger   *slog.Logger
	observer Observer
	newID    func() string
}

// New constructs a Recorder. observer may be nil.
func New(cfg *config.Config, logger *slog.Logger, observer Observer) *Recorder {
	return &Recorder{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "recorder"),
		observer: observer,
		newID:    uuid.NewString,
	}
}

// Run performs req. The source is validated before anything on the target
// is touched.
func (r *Recorder) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: r.newID()}
	logger := r.logger.With(logging.String(logging.FieldRunID, result.RunID))

	source, err := filepath.Abs(strings.TrimSpace(req.Source))
	if err != nil {
		return result, fmt.Errorf("resolve source: %w", err)
	}
	result.Source = source
	if trimmed := strings.TrimSpace(req.Target); trimmed != "" {
		if result.Target, err = filepath.Abs(trimmed); err != nil {
			return result, fmt.Errorf("resolve target: %w", err)
		}
	} else if !req.DryRun {
		return result, errors.New("target directory is required")
	}

	eligible, err := indexer.CountEligible(source)
	if err != nil {
		return result, err
	}
	result.Eligible = eligible
	if eligible > indexer.MaxIndex {
		return result, fmt.Errorf("%w: %d eligible files", indexer.ErrIndexOverflow, eligible)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !req.DryRun {
		lock, err := target.AcquireLock(r.cfg.LockPath())
		if err != nil {
			return result, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release lock", logging.Error(err))
			}
		}()
	}

	ledger, err := r.openLedger(ctx, req, result, start)
	if err != nil {
		return result, err
	}
	if ledger != nil {
		defer ledger.Close()
	}

	logger.Info("run started",
		logging.String("source", result.Source),
		logging.String("target", result.Target),
		logging.Int("eligible", eligible),
		logging.Bool("dry_run", req.DryRun),
		logging.String(logging.FieldEventType, "run_started"),
	)

	runErr := r.execute(ctx, req, result, logger)
	result.Duration = time.Since(start)

	if ledger != nil {
		if err := r.persist(ctx, ledger, result, runErr); err != nil {
			logger.Warn("failed to record run history",
				logging.Error(err),
				logging.String(logging.FieldEventType, "history_write_failed"),
				logging.String(logging.FieldErrorHint, "delete the history database if it is corrupt"),
			)
		}
	}

	if runErr != nil {
		logger.Error("run failed",
			logging.Int("tracks", len(result.Tracks)),
			logging.Error(runErr),
			logging.String(logging.FieldEventType, "run_failed"),
		)
		return result, runErr
	}
	logger.Info("run completed",
		logging.Int("tracks", len(result.Tracks)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Duration("duration", result.Duration),
		logging.String(logging.FieldEventType, "run_completed"),
	)
	return result, nil
}

func (r *Recorder) execute(ctx context.Context, req Request, result *Result, logger *slog.Logger) error {
	var copier indexer.Copier = indexer.PlanCopier{}
	if !req.DryRun {
		if err := r.prepareTarget(req, result, logger); err != nil {
			return err
		}
		copier = indexer.FileCopier{BufferSize: r.cfg.CopyBufferSize()}
	}

	if r.observer != nil {
		r.observer.Started(result.Eligible)
	}
	collector := &collector{result: result, next: r.observer}
	ix := indexer.New(indexer.Options{
		Copier: copier,
		Names: naming.NewGenerator(naming.Options{
			Prefix:       r.cfg.Naming.IdentifierPrefix,
			FolderPrefix: r.cfg.Naming.FolderPrefix,
		}),
		Logger:   logger,
		Observer: collector,
	})
	result.Table = ix.Table()

	traverseErr := ix.Traverse(result.Source, result.Target)
	if req.ReadTags {
		r.readTags(ctx, result, logger)
	}
	if traverseErr != nil {
		return traverseErr
	}
	if req.DryRun {
		return nil
	}

	path, err := ix.Table().Save(result.Target, r.cfg.Target.ReferenceName)
	if err != nil {
		return fmt.Errorf("write reference file: %w", err)
	}
	result.ReferencePath = path
	logger.Info("reference file written",
		logging.String("path", path),
		logging.Int("definitions", ix.Table().Len()),
		logging.String(logging.FieldEventType, "reference_written"),
	)
	return nil
}

func (r *Recorder) prepareTarget(req Request, result *Result, logger *slog.Logger) error {
	if err := target.CheckOverlap(result.Target, result.Source); err != nil {
		return err
	}
	if req.Clear {
		cleared, err := target.Clear(result.Target, result.Source, logger)
		if err != nil {
			return err
		}
		result.Cleared = len(cleared.Removed)
	} else if err := os.MkdirAll(result.Target, 0o755); err != nil {
		return fmt.Errorf("create target %s: %w", result.Target, err)
	}
	return target.CheckWritable(result.Target)
}

func (r *Recorder) readTags(ctx context.Context, result *Result, logger *slog.Logger) {
	for i := range result.Tracks {
		if ctx.Err() != nil {
			return
		}
		info, err := tags.Read(result.Tracks[i].Source)
		if err != nil {
			logger.Debug("no readable tags",
				logging.String("source", result.Tracks[i].Source),
				logging.Error(err),
			)
			continue
		}
		if info.Empty() {
			continue
		}
		result.Tracks[i].Tags = info
	}
}

func (r *Recorder) openLedger(ctx context.Context, req Request, result *Result, start time.Time) (*history.Store, error) {
	if req.NoHistory || !r.cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(r.cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	run := history.Run{
		RunID:     result.RunID,
		Source:    result.Source,
		Target:    result.Target,
		DryRun:    req.DryRun,
		StartedAt: start,
	}
	if err := store.BeginRun(ctx, run); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func (r *Recorder) persist(ctx context.Context, store *history.Store, result *Result, runErr error) error {
	// The run outcome is stored even when the caller's context was cancelled.
	ctx = context.WithoutCancel(ctx)
	for _, track := range result.Tracks {
		err := store.RecordTrack(ctx, history.Track{
			RunID:      result.RunID,
			Index:      track.Index,
			Identifier: track.Identifier,
			SourcePath: track.Source,
			TargetName: filepath.Base(track.Target),
			Title:      track.Tags.Title,
			Artist:     track.Tags.Artist,
		})
		if err != nil {
			return err
		}
	}
	return store.FinishRun(ctx, result.RunID, len(result.Tracks), len(result.Skipped), runErr)
}

// collector records indexer events on the result and forwards them.
type collector struct {
	result *Result
	next   Observer
}

func (c *collector) Assigned(a indexer.Assignment) {
	c.result.Tracks = append(c.result.Tracks, Track{Assignment: a})
	if c.next != nil {
		c.next.Assigned(a)
	}
}

func (c *collector) Skipped(path string) {
	c.result.Skipped = append(c.result.Skipped, path)
	if c.next != nil {
		c.next.Skipped(path)
	}
}
