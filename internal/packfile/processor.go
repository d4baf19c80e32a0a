package packfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/packer/internal/packer"
	"github.com/eugenenazirov/packer/internal/storage"
)

const maxLineBytes = 1 << 20

// LineResult is the outcome of one input line.
type LineResult struct {
	Number    int
	Input     string
	Selection string
	Pack      packer.Pack
	Selected  bool
	Cached    bool
}

// Processor runs lines through a selector, optionally consulting a result cache.
type Processor struct {
	selector packer.Selector
	cache    storage.Storage
	logger   *zap.Logger
	workers  int
}

// Option configures a Processor.
type Option func(*Processor)

// WithCache enables result caching keyed by the raw line.
func WithCache(cache storage.Storage) Option {
	return func(p *Processor) {
		p.cache = cache
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkers bounds how many lines are solved concurrently. Values below one mean one.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// NewProcessor constructs a Processor around selector.
func NewProcessor(selector packer.Selector, opts ...Option) *Processor {
	p := &Processor{
		selector: selector,
		logger:   zap.NewNop(),
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PackFile reads the file at path and returns the rendered output for every line.
func (p *Processor) PackFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("handle file %q: %w", path, err)
	}
	defer f.Close()

	results, err := p.Process(ctx, f)
	if err != nil {
		return "", fmt.Errorf("handle file %q: %w", path, err)
	}
	return Join(results), nil
}

// Process reads lines from r and solves each of them. CRLF line endings are accepted.
func (p *Processor) Process(ctx context.Context, r io.Reader) ([]LineResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return p.Lines(ctx, lines)
}

// Lines solves every line and returns results in input order. The first malformed
// line in input order aborts processing and is reported with its 1-based line number.
func (p *Processor) Lines(ctx context.Context, lines []string) ([]LineResult, error) {
	start := time.Now()
	results := make([]LineResult, len(lines))
	errs := make([]error, len(lines))

	// lines after the earliest failure so far are skipped; earlier ones still run
	var firstBad atomic.Int64
	firstBad.Store(int64(len(lines)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if int64(i) > firstBad.Load() {
				return nil
			}
			res, err := p.solve(i+1, line)
			if err != nil {
				errs[i] = err
				lowerTo(&firstBad, int64(i))
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	p.logger.Debug("lines processed",
		zap.Int("lines", len(lines)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func (p *Processor) solve(number int, line string) (LineResult, error) {
	res := LineResult{Number: number, Input: line}

	if p.cache != nil {
		if entry, ok := p.cache.Get(line); ok {
			res.Pack, res.Selected, res.Cached = entry.Pack, entry.Selected, true
			res.Selection = Render(entry.Pack, entry.Selected)
			return res, nil
		}
	}

	pack, selected, err := p.selector.Select(line)
	if err != nil {
		return LineResult{}, err
	}

	if p.cache != nil {
		p.cache.Put(line, storage.Entry{Pack: pack, Selected: selected})
	}

	res.Pack, res.Selected = pack, selected
	res.Selection = Render(pack, selected)
	return res, nil
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// PackFile processes path with a default selector and no cache.
func PackFile(ctx context.Context, path string) (string, error) {
	return NewProcessor(packer.New()).PackFile(ctx, path)
}
