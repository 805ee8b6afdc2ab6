// Package ingest converts image files into pool items. Inputs are processed
// one at a time; a failing input is recorded and skipped, and every success
// lands in the pool in a single batch at the end.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// DefaultMaxBytes is the per-file size ceiling.
const DefaultMaxBytes int64 = 10 << 20

// Per-file failure causes.
var (
	ErrNotImage = errors.New("not an image")
	ErrTooLarge = errors.New("file too large")
	ErrRead     = errors.New("read failed")
)

// Appender receives the successful items of a batch.
type Appender interface {
	AppendToPool(ctx context.Context, items []types.Item) error
}

// Failure records why one input was skipped.
type Failure struct {
	Name string
	Err  error
}

// Result summarises a batch.
type Result struct {
	Succeeded int
	Failed    int
	Items     []types.Item
	Failures  []Failure
}

// ProgressFunc is called after each input with the number processed so far.
type ProgressFunc func(done, total int)

// Pipeline imports batches of image files.
type Pipeline struct {
	appender Appender
	decoder  Decoder
	maxBytes int64
	progress ProgressFunc
	newID    func() string
	log      *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDecoder replaces the default data URI decoder.
func WithDecoder(d Decoder) Option {
	return func(p *Pipeline) { p.decoder = d }
}

// WithMaxBytes sets the per-file ceiling. Values <= 0 keep the default.
func WithMaxBytes(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithIDGenerator replaces the item id source.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline returns a pipeline that appends into a.
func NewPipeline(a Appender, opts ...Option) *Pipeline {
	p := &Pipeline{
		appender: a,
		decoder:  DataURIDecoder{},
		maxBytes: DefaultMaxBytes,
		newID:    func() string { return board.NewID(board.ItemPrefix) },
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Import processes files in order. Per-file failures are collected in the
// result; the returned error is set only when appending the batch fails.
// With no successes the pool is not touched.
func (p *Pipeline) Import(ctx context.Context, files []File) (Result, error) {
	var res Result
	for i, f := range files {
		it, err := p.one(ctx, f)
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{Name: f.Name, Err: err})
			p.log.WithFields(log.Fields{"file": f.Name, "error": err}).Warn("import failed")
		} else {
			res.Succeeded++
			res.Items = append(res.Items, it)
		}
		if p.progress != nil {
			p.progress(i+1, len(files))
		}
	}

	if len(res.Items) > 0 {
		if err := p.appender.AppendToPool(ctx, res.Items); err != nil {
			return res, fmt.Errorf("append imported items: %w", err)
		}
	}
	p.log.WithFields(log.Fields{"succeeded": res.Succeeded, "failed": res.Failed}).Info("import finished")
	return res, nil
}

func (p *Pipeline) one(ctx context.Context, f File) (types.Item, error) {
	if f.Size > p.maxBytes {
		return types.Item{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, f.Size, p.maxBytes)
	}
	declared := normalizeMediaType(f.MediaType)
	if declared != "" && !isImage(declared) {
		return types.Item{}, fmt.Errorf("%w: %s", ErrNotImage, declared)
	}

	data, err := p.read(f)
	if err != nil {
		return types.Item{}, err
	}

	mt := declared
	if mt == "" {
		mt = normalizeMediaType(http.DetectContentType(data))
		if !isImage(mt) {
			return types.Item{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt)
		}
	}

	uri, err := p.decoder.Decode(ctx, f.Name, mt, data)
	if err != nil {
		return types.Item{}, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return types.Item{ID: p.newID(), Text: DisplayName(f.Name), Image: uri}, nil
}

func (p *Pipeline) read(f File) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%w: no content", ErrRead)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, p.maxBytes)
	}
	return data, nil
}

func normalizeMediaType(s string) string {
	if s == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return mt
}

func isImage(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}
