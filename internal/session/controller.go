// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session implements the upload session controller: the single
// owner of the file selection, the submission status and the artifact a
// successful conversion produces.
//
// Every state change happens under the controller's lock and is followed by
// one observer notification. The only blocking step is the conversion
// request inside Submit; callers that must stay responsive run Submit in
// its own goroutine and render from the observer or from Snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/snapmerge/internal/blobstore"
	"github.com/pdiddy/snapmerge/internal/convert"
	"github.com/pdiddy/snapmerge/internal/logging"
	"github.com/pdiddy/snapmerge/internal/telemetry"
	"github.com/pdiddy/snapmerge/pkg/types"
)

var (
	// ErrNoFiles is the advisory returned by Submit on an empty selection.
	ErrNoFiles = errors.New("select at least one file")

	// ErrSuperseded is returned by a Submit whose result was discarded
	// because a newer submission or Close replaced it.
	ErrSuperseded = errors.New("submission superseded")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("session closed")
)

// Observer receives a snapshot after every state change.
type Observer func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithObserver registers fn to be called after every state change.
func WithObserver(fn Observer) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithMetrics records selection and submission metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithTracer sets the tracer for submission spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) { c.tracer = t }
}

// Controller owns one upload session.
type Controller struct {
	conv     convert.Converter
	blobs    *blobstore.Store
	log      logging.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	observer Observer
	id       string

	mu       sync.Mutex
	files    []types.FileEntry
	phase    Phase
	artifact *types.Artifact
	message  string
	cycle    uint64
	closed   bool
}

// New creates an idle controller with an empty selection. Artifacts are
// stored in blobs; a nil blobs gets a private store.
func New(conv convert.Converter, blobs *blobstore.Store, opts ...Option) *Controller {
	if blobs == nil {
		blobs = blobstore.New()
	}
	c := &Controller{
		conv:  conv,
		blobs: blobs,
		log:   logging.Discard(),
		id:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("session", c.id)
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SelectFiles replaces the selection with files, in the given order. No
// file is rejected for its name, type or size. From Succeeded or Failed the
// prior artifact is released and the session returns to Idle. A submission
// in flight is left alone: it still settles into Succeeded or Failed.
func (c *Controller) SelectFiles(files []types.FileEntry) {
	ctx := context.Background()

	c.mu.Lock()
	c.files = slices.Clone(files)
	if c.phase == Succeeded || c.phase == Failed {
		c.releaseLocked()
		c.phase = Idle
		c.message = ""
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "files selected", "count", len(files))
	for i, f := range files {
		c.log.Debug(ctx, "selected file", "index", i, "name", f.Name, "size", f.Size)
	}
	c.metrics.SetSelected(len(snap.Files))
	c.notify(snap)
}

// RemoveFile removes the entry at index, shifting later entries down. An
// index outside the selection is ignored and RemoveFile reports false. The
// submission status is never changed.
func (c *Controller) RemoveFile(index int) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.files) {
		n := len(c.files)
		c.mu.Unlock()
		c.log.Warn(context.Background(), "remove ignored: index out of range", "index", index, "count", n)
		return false
	}
	removed := c.files[index]
	c.files = slices.Delete(c.files, index, index+1)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug(context.Background(), "file removed", "index", index, "name", removed.Name, "remaining", len(snap.Files))
	c.metrics.SetSelected(len(snap.Files))
	c.notify(snap)
	return true
}

// Submit sends the current selection for conversion and blocks until the
// request settles.
//
// An empty selection returns ErrNoFiles without touching state or the
// network. Otherwise any prior artifact is released, the session enters
// Submitting, and exactly one request is issued. The session then lands in
// Succeeded (Submit returns nil) or Failed (Submit returns the cause). If a
// newer cycle replaced this one while it was in flight, the result is
// discarded and Submit returns ErrSuperseded.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if len(c.files) == 0 {
		c.mu.Unlock()
		c.log.Warn(ctx, "submit ignored", "reason", ErrNoFiles)
		return ErrNoFiles
	}
	c.releaseLocked()
	c.cycle++
	cycle := c.cycle
	files := slices.Clone(c.files)
	c.phase = Submitting
	c.message = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.log.Info(ctx, "submitting", "cycle", cycle, "files", len(files))

	ctx, span := telemetry.StartSubmit(ctx, c.tracer, cycle, len(files))
	start := time.Now()

	res, err := c.convert(ctx, files)
	return c.settle(ctx, cycle, res, err, start, span)
}

// Close releases the current artifact and supersedes any submission in
// flight. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.releaseLocked()
	c.cycle++
	c.phase = Idle
	c.message = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug(context.Background(), "session closed")
	c.notify(snap)
	return nil
}

// convert runs the converter, turning a panic into an error so the session
// never stays in Submitting.
func (c *Controller) convert(ctx context.Context, files []types.FileEntry) (res *convert.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("conversion aborted: %v", r)
		}
	}()
	res, err = c.conv.Convert(ctx, files)
	if err == nil && res == nil {
		err = errors.New("conversion returned no result")
	}
	return res, err
}

// settle moves cycle to its terminal state, or discards the outcome when
// the cycle is no longer current.
func (c *Controller) settle(ctx context.Context, cycle uint64, res *convert.Result, err error, start time.Time, span trace.Span) error {
	elapsed := time.Since(start)

	c.mu.Lock()
	if cycle != c.cycle || c.phase != Submitting {
		c.mu.Unlock()
		c.log.Info(ctx, "discarding superseded result", "cycle", cycle)
		c.metrics.ObserveSubmission(telemetry.OutcomeSuperseded, elapsed, 0)
		telemetry.EndSubmit(span, telemetry.OutcomeSuperseded, 0, ErrSuperseded)
		return ErrSuperseded
	}

	if err != nil {
		c.phase = Failed
		c.message = err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.log.Error(ctx, "conversion failed", "cycle", cycle, "error", err, "elapsed", elapsed)
		c.metrics.ObserveSubmission(telemetry.OutcomeFailed, elapsed, 0)
		telemetry.EndSubmit(span, telemetry.OutcomeFailed, 0, err)
		c.notify(snap)
		return err
	}

	url := c.blobs.Create(res.Content, res.ContentType)
	c.artifact = &types.Artifact{
		Content:     res.Content,
		ContentType: res.ContentType,
		Filename:    types.ArtifactFilename,
		URL:         url,
		Report:      res.Report,
	}
	c.phase = Succeeded
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "conversion succeeded", "cycle", cycle, "bytes", len(res.Content), "elapsed", elapsed)
	c.metrics.ObserveSubmission(telemetry.OutcomeSucceeded, elapsed, len(res.Content))
	telemetry.EndSubmit(span, telemetry.OutcomeSucceeded, len(res.Content), nil)
	c.notify(snap)
	return nil
}

// releaseLocked is the single place an artifact's resource is given back.
// Every transition that replaces or drops the artifact goes through it.
func (c *Controller) releaseLocked() {
	if c.artifact == nil {
		return
	}
	c.blobs.Revoke(c.artifact.URL)
	c.artifact = nil
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:    c.id,
		Files: slices.Clone(c.files),
		Phase: c.phase,
		Cycle: c.cycle,
	}
	if c.phase == Succeeded && c.artifact != nil {
		a := *c.artifact
		s.Artifact = &a
	}
	if c.phase == Failed {
		s.Message = c.message
	}
	return s
}

func (c *Controller) notify(s Snapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}
