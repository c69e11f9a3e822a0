package laseretch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Outcome reports which exit an Export call took. Exactly one applies per call.
type Outcome int

const (
	// OutcomeMissingDocument means there was nothing to export; no save was attempted.
	OutcomeMissingDocument Outcome = iota
	// OutcomePrimary means the first strategy saved the file.
	OutcomePrimary
	// OutcomeFallback means a later strategy saved the file.
	OutcomeFallback
	// OutcomeManualCopy means every strategy failed and the document was shown for copying.
	OutcomeManualCopy
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeMissingDocument:
		return "missing-document"
	case OutcomePrimary:
		return "primary"
	case OutcomeFallback:
		return "fallback"
	case OutcomeManualCopy:
		return "manual-copy"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Saved reports whether a file was produced.
func (o Outcome) Saved() bool {
	return o == OutcomePrimary || o == OutcomeFallback
}

// Result describes a finished Export call.
type Result struct {
	Outcome  Outcome
	Strategy string  // name of the strategy that saved the file, if any
	Errors   []error // one wrapped error per failed strategy, in order
}

// Strategy is one tier of the export chain.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, host Host, doc Document, filename string) error
}

// BlobStrategy saves through a temporary object URL, released on every exit path.
type BlobStrategy struct{}

// Name implements Strategy.
func (BlobStrategy) Name() string { return "blob" }

// Attempt implements Strategy.
func (BlobStrategy) Attempt(ctx context.Context, host Host, doc Document, filename string) error {
	url, err := host.CreateObjectURL(ctx, doc.Bytes(), MediaType)
	if err != nil {
		return err
	}
	defer host.RevokeObjectURL(url)

	return clickAnchor(ctx, host, url, filename)
}

// DataURIStrategy saves through an inline percent-encoded data URI. Nothing needs releasing.
type DataURIStrategy struct{}

// Name implements Strategy.
func (DataURIStrategy) Name() string { return "data-uri" }

// Attempt implements Strategy.
func (DataURIStrategy) Attempt(ctx context.Context, host Host, doc Document, filename string) error {
	return clickAnchor(ctx, host, DataURI(doc), filename)
}

// clickAnchor synthesizes, activates and removes an anchor.
func clickAnchor(ctx context.Context, host Host, href, filename string) error {
	a, err := host.AppendAnchor(ctx, href, filename)
	if err != nil {
		return err
	}
	defer a.Remove()

	return a.Click(ctx)
}

// DefaultStrategies returns the blob tier followed by the data URI tier.
func DefaultStrategies() []Strategy {
	return []Strategy{BlobStrategy{}, DataURIStrategy{}}
}

// Exporter saves documents through an ordered chain of strategies, ending in
// a manual-copy prompt when every strategy fails.
type Exporter struct {
	host       Host
	strategies []Strategy
	filename   string
	logger     *slog.Logger
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithStrategies replaces the default chain. Order is the order of attempts.
func WithStrategies(strategies ...Strategy) ExportOption {
	return func(e *Exporter) { e.strategies = strategies }
}

// WithFilename sets the suggested download name.
// Panics if name is empty (programmer error).
func WithFilename(name string) ExportOption {
	if name == "" {
		panic("laseretch: WithFilename name must not be empty")
	}
	return func(e *Exporter) { e.filename = name }
}

// WithLogger sets the logger that receives tier failures.
func WithLogger(l *slog.Logger) ExportOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter creates an Exporter bound to host.
func NewExporter(host Host, opts ...ExportOption) *Exporter {
	e := &Exporter{
		host:       host,
		strategies: DefaultStrategies(),
		filename:   DefaultFilename,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export saves doc. It never returns an error: every failure is logged and
// escalated to the next tier, and the last resort hands the exact document to
// the host's prompt.
func (e *Exporter) Export(ctx context.Context, doc Document) Result {
	if doc.IsEmpty() {
		e.logger.Warn("export skipped", "err", ErrMissingDocument)
		e.notify(func() { e.host.Alert(missingDocumentMessage) })
		return Result{Outcome: OutcomeMissingDocument}
	}

	var res Result
	for i, s := range e.strategies {
		err := attempt(ctx, s, e.host, doc, e.filename)
		if err == nil {
			res.Outcome = OutcomeFallback
			if i == 0 {
				res.Outcome = OutcomePrimary
			}
			res.Strategy = s.Name()
			e.logger.Debug("export saved", "tier", s.Name(), "filename", e.filename)
			return res
		}

		tierErr := ErrFallbackExport
		if i == 0 {
			tierErr = ErrPrimaryExport
		}
		err = fmt.Errorf("%w: %s: %w", tierErr, s.Name(), err)
		res.Errors = append(res.Errors, err)
		e.logger.Warn("export tier failed", "tier", s.Name(), "err", err)
	}

	e.notify(func() { e.host.Prompt(manualCopyMessage, doc.String()) })
	res.Outcome = OutcomeManualCopy
	return res
}

// attempt runs one strategy, turning a panic into an error so it escalates like any failure.
func attempt(ctx context.Context, s Strategy, host Host, doc Document, filename string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return s.Attempt(ctx, host, doc, filename)
}

// notify shows a host notice; a panicking host is logged, not propagated.
func (e *Exporter) notify(show func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("host notice failed", "err", fmt.Errorf("internal error: %v", r))
		}
	}()
	show()
}
