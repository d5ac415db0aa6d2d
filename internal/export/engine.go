package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
	"github.com/outlay-cli/outlay/internal/service"
)

// historyLimit caps the persisted export history at the most recent entries.
const historyLimit = 50

// Result is the output of one export operation.
type Result struct {
	Content     string
	MediaType   string
	Filename    string
	RecordCount int
	TotalAmount float64
}

// RunOptions drives a history-producing export. When TemplateID is set the
// template's predicate selects the records (and its format applies unless
// overridden); otherwise every expense passed in is exported.
type RunOptions struct {
	Format      model.Format
	Filename    string
	Destination string // freeform label recorded in history
	TemplateID  string
}

// Outcome bundles the generated document with its history entry. When
// persisting the entry fails, Run still returns the outcome alongside the
// error so a successful export is never discarded.
type Outcome struct {
	Result Result
	Entry  model.ExportHistoryEntry
}

// Engine orchestrates filtering, generation, and history bookkeeping.
// Expense snapshots are always supplied by the caller; the engine's only
// shared state is the history store, whose read-modify-write cycle is
// serialized so concurrent callers keep the single-writer guarantee.
type Engine struct {
	history   service.HistoryStore
	templates *TemplateRegistry
	now       func() time.Time
	pace      func(ctx context.Context) error
	logger    *slog.Logger
	mu        sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPacing installs a hook invoked before generation, e.g. to drive a
// progress bar or honor cancellation. The default is a no-op.
func WithPacing(pace func(ctx context.Context) error) Option {
	return func(e *Engine) { e.pace = pace }
}

// WithTemplates overrides the template registry.
func WithTemplates(registry *TemplateRegistry) Option {
	return func(e *Engine) { e.templates = registry }
}

// NewEngine creates an export engine. The history store may be nil, in which
// case Run skips persistence entirely.
func NewEngine(history service.HistoryStore, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		history:   history,
		templates: DefaultTemplates(),
		now:       time.Now,
		pace:      func(context.Context) error { return nil },
		logger:    logger,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export filters, sorts, and serializes a snapshot of expenses. Content is
// deterministic for identical input apart from the embedded generation
// timestamp. An empty selection still succeeds and yields a zero-record
// document.
func (e *Engine) Export(ctx context.Context, expenses []model.Expense, opts Options) (*Result, error) {
	if err := e.pace(ctx); err != nil {
		return nil, err
	}

	selected := SortByDateDesc(Filter(expenses, opts))

	content, err := e.generate(selected, opts.Format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Content:     content,
		MediaType:   MediaType(opts.Format),
		Filename:    BuildFilename(opts.Filename, opts.Format),
		RecordCount: len(selected),
		TotalAmount: report.TotalSpending(selected),
	}

	e.logger.Debug("export generated",
		"format", opts.Format,
		"filename", result.Filename,
		"records", result.RecordCount,
		"total", result.TotalAmount)

	return result, nil
}

// Run executes an export and records it in history. Template-driven runs
// select records through the template's predicate; plain runs export the
// whole snapshot. An unsupported format fails before any history is written.
func (e *Engine) Run(ctx context.Context, expenses []model.Expense, opts RunOptions) (*Outcome, error) {
	templateName := ""
	if opts.TemplateID != "" {
		tmpl, ok := e.templates.Get(opts.TemplateID)
		if !ok {
			return nil, fmt.Errorf("unknown export template %q", opts.TemplateID)
		}
		expenses = tmpl.Select(expenses, e.now())
		templateName = tmpl.Name
		if opts.Format == "" {
			opts.Format = tmpl.Format
		}
	}

	if err := e.pace(ctx); err != nil {
		return nil, err
	}

	sorted := SortByDateDesc(expenses)
	content, err := e.generate(sorted, opts.Format)
	if err != nil {
		return nil, err
	}

	now := e.now()
	outcome := &Outcome{
		Result: Result{
			Content:     content,
			MediaType:   MediaType(opts.Format),
			Filename:    BuildFilename(opts.Filename, opts.Format),
			RecordCount: len(sorted),
			TotalAmount: report.TotalSpending(sorted),
		},
		Entry: model.ExportHistoryEntry{
			ID:           model.NewID(now),
			Timestamp:    now,
			Format:       opts.Format,
			Destination:  opts.Destination,
			RecordCount:  len(sorted),
			TotalAmount:  report.TotalSpending(sorted),
			Status:       model.StatusCompleted,
			TemplateName: templateName,
			Filename:     BuildFilename(opts.Filename, opts.Format),
		},
	}

	if err := e.recordHistory(ctx, outcome.Entry); err != nil {
		// The export itself succeeded; hand the outcome back with the error.
		return outcome, err
	}

	e.logger.Info("export completed",
		"format", opts.Format,
		"destination", opts.Destination,
		"records", outcome.Result.RecordCount,
		"filename", outcome.Result.Filename)

	return outcome, nil
}

// generate dispatches to the format generator.
func (e *Engine) generate(sorted []model.Expense, format model.Format) (string, error) {
	switch format {
	case model.FormatCSV:
		return GenerateCSV(sorted), nil
	case model.FormatJSON:
		return GenerateJSON(sorted, e.now())
	case model.FormatPDF:
		return GenerateHTMLReport(sorted, e.now())
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

// recordHistory prepends an entry to the persisted history and truncates to
// the retention limit. The whole read-modify-write cycle holds the engine
// mutex.
func (e *Engine) recordHistory(ctx context.Context, entry model.ExportHistoryEntry) error {
	if e.history == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	history, err := e.history.GetHistory(ctx)
	if err != nil {
		// Read failures degrade to an empty log rather than losing the entry.
		e.logger.Warn("failed to load export history, starting fresh", "error", err)
		history = nil
	}

	history = append([]model.ExportHistoryEntry{entry}, history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}

	if err := e.history.SaveHistory(ctx, history); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageWrite, err)
	}
	return nil
}
