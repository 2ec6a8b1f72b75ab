package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/triagebot-ai/triagebot/internal/logger"
)

// Defaults mirror the validator configuration knobs.
const (
	DefaultConcurrency = 10
	DefaultTimeout     = 10 * time.Second
	DefaultBatchPause  = 100 * time.Millisecond
)

// Item is one URL to validate: the endpoint, its API type, and the
// ticket it belongs to.
type Item struct {
	URL    string
	Type   string
	Ticket string
}

// Result is the validation outcome for a single item.
type Result struct {
	Ticket  string `json:"ticket"`
	Valid   bool   `json:"valid"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

// Validator checks ticket URLs in fixed-size concurrent batches.
type Validator struct {
	client      *http.Client
	concurrency int
	pause       time.Duration
	now         func() time.Time
}

// Config tunes the validator. Zero values fall back to defaults.
type Config struct {
	Concurrency int
	Timeout     time.Duration
	BatchPause  time.Duration
}

// New creates a Validator.
func New(cfg Config) *Validator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = DefaultBatchPause
	}
	return &Validator{
		client:      &http.Client{Timeout: cfg.Timeout},
		concurrency: cfg.Concurrency,
		pause:       cfg.BatchPause,
		now:         time.Now,
	}
}

// Validate checks every item and returns one result per input, in input
// order. Items run concurrently within a batch of at most the configured
// concurrency, with a short pause between batches. A failing item never
// cancels its siblings.
func (v *Validator) Validate(ctx context.Context, items []Item) []Result {
	log := logger.FromContext(ctx)
	results := make([]Result, len(items))

	for start := 0; start < len(items); start += v.concurrency {
		end := start + v.concurrency
		if end > len(items) {
			end = len(items)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = v.validateOne(gctx, items[i])
				return nil
			})
		}
		_ = g.Wait()

		log.Debug("link check batch done",
			zap.Int("from", start), zap.Int("to", end), zap.Int("total", len(items)))

		if end < len(items) && v.pause > 0 {
			select {
			case <-time.After(v.pause):
			case <-ctx.Done():
				for i := end; i < len(items); i++ {
					results[i] = newResult(items[i].Ticket, false, "Validation Error", ctx.Err().Error())
				}
				return results
			}
		}
	}

	return results
}

func (v *Validator) validateOne(ctx context.Context, item Item) Result {
	if strings.TrimSpace(item.URL) == "" {
		return newResult(item.Ticket, false, "Missing URL", "URL is empty")
	}
	if !strings.HasPrefix(item.URL, "http://") && !strings.HasPrefix(item.URL, "https://") {
		return newResult(item.Ticket, false, "Invalid URL", "URL must start with http:// or https://")
	}

	kind := strings.ToLower(item.Type)
	switch {
	case strings.Contains(kind, "coveragev3"):
		return v.checkCoverage(ctx, item)
	case strings.Contains(kind, "memberv3"):
		return v.checkMember(ctx, item)
	case strings.Contains(kind, "accums"):
		return v.checkAccums(ctx, item)
	default:
		return v.checkGeneric(ctx, item)
	}
}

// fetch runs a GET and classifies transport-level failures.
func (v *Validator) fetch(ctx context.Context, item Item) (*http.Response, *Result) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, http.NoBody)
	if err != nil {
		r := newResult(item.Ticket, false, "Invalid URL", err.Error())
		return nil, &r
	}

	resp, err := v.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			r := newResult(item.Ticket, false, "Timeout", "Request timed out")
			return nil, &r
		}
		r := newResult(item.Ticket, false, "Connection Error", err.Error())
		return nil, &r
	}
	return resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func newResult(ticket string, valid bool, status, details string) Result {
	return Result{Ticket: ticket, Valid: valid, Status: status, Details: details}
}
