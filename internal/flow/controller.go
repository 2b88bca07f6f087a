// Package flow drives the quote request lifecycle.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/quipe/internal/clipboard"
	"github.com/verte-zerg/quipe/internal/logging"
	"github.com/verte-zerg/quipe/internal/model"
	"github.com/verte-zerg/quipe/internal/notify"
	"github.com/verte-zerg/quipe/internal/quoteapi"
)

const (
	// DefaultFallbackAuthor is shown when the backend omits an author.
	DefaultFallbackAuthor = "Ayō"
	// DefaultWarnThreshold is the request count past which a soft warning is shown.
	DefaultWarnThreshold = 50

	// ErrorText replaces the displayed quote after a failed request.
	ErrorText = "Failed to generate quote. Please make sure the backend server is running."
)

// Notification texts.
const (
	MsgGenerating = "Generating your quote..."
	MsgGenerated  = "Quote generated successfully!"
	MsgFailed     = "Failed to generate quote. Please try again."
	MsgSlowDown   = "Rate limit approaching. Please slow down."
	MsgNoQuote    = "Generate a quote first!"
	MsgCopied     = "Quote copied to clipboard!"
	MsgCopyFailed = "Failed to copy quote"
)

// ErrBusy is returned when a request is already in flight.
var ErrBusy = errors.New("a quote request is already in flight")

// QuoteAPI fetches quotes from the backend.
type QuoteAPI interface {
	Generate(ctx context.Context, prefs model.Preferences) (quoteapi.QuoteResponse, error)
	Random(ctx context.Context) (quoteapi.QuoteResponse, error)
}

// CounterStore persists the successful request count.
type CounterStore interface {
	Count(ctx context.Context) (int, error)
	Increment(ctx context.Context) (int, error)
}

// HistoryStore records successful generations.
type HistoryStore interface {
	InsertQuote(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error)
}

// Options configures a Controller. API and Counter are required.
type Options struct {
	API       QuoteAPI
	Counter   CounterStore
	History   HistoryStore
	Clipboard clipboard.Writer
	Notifier  notify.Notifier
	Logger    *log.Logger

	FallbackAuthor string
	// KeepOnError keeps the last quote visible after a failure instead of
	// replacing it with ErrorText.
	KeepOnError   bool
	WarnThreshold int
}

// Snapshot is the display state at a point in time.
type Snapshot struct {
	State   model.RequestState
	Display model.QuoteResult
	Last    model.QuoteResult
	Failed  bool
	Err     error
	Count   int
}

// Controller runs quote requests and tracks what is displayed.
type Controller struct {
	api       QuoteAPI
	counter   CounterStore
	history   HistoryStore
	clipboard clipboard.Writer
	notifier  notify.Notifier
	logger    *log.Logger

	fallbackAuthor string
	keepOnError    bool
	warnThreshold  int

	mu      sync.Mutex
	state   model.RequestState
	last    model.QuoteResult
	failed  bool
	lastErr error
	count   int
}

// New constructs a Controller.
func New(opts Options) *Controller {
	c := &Controller{
		api:            opts.API,
		counter:        opts.Counter,
		history:        opts.History,
		clipboard:      opts.Clipboard,
		notifier:       opts.Notifier,
		logger:         opts.Logger,
		fallbackAuthor: strings.TrimSpace(opts.FallbackAuthor),
		keepOnError:    opts.KeepOnError,
		warnThreshold:  opts.WarnThreshold,
	}
	if c.clipboard == nil {
		c.clipboard = clipboard.System{}
	}
	if c.notifier == nil {
		c.notifier = notify.NotifierFunc(nil)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.fallbackAuthor == "" {
		c.fallbackAuthor = DefaultFallbackAuthor
	}
	if c.warnThreshold <= 0 {
		c.warnThreshold = DefaultWarnThreshold
	}
	return c
}

// Generate requests a quote for prefs and updates the display state.
func (c *Controller) Generate(ctx context.Context, prefs model.Preferences) (model.QuoteResult, error) {
	if err := prefs.Validate(); err != nil {
		c.notify(notify.KindWarning, err.Error())
		return model.QuoteResult{}, err
	}
	return c.run(ctx, prefs, func(ctx context.Context) (quoteapi.QuoteResponse, error) {
		return c.api.Generate(ctx, prefs)
	})
}

// Random requests a quote from a random category.
func (c *Controller) Random(ctx context.Context) (model.QuoteResult, error) {
	prefs := model.Preferences{Category: model.CategoryRandom}
	return c.run(ctx, prefs, c.api.Random)
}

func (c *Controller) run(ctx context.Context, prefs model.Preferences, fetch func(context.Context) (quoteapi.QuoteResponse, error)) (model.QuoteResult, error) {
	if !c.begin() {
		return model.QuoteResult{}, ErrBusy
	}
	defer c.end()

	c.warnIfBusyUser(ctx)
	c.notify(notify.KindLoading, MsgGenerating)
	c.logger.Debug("requesting quote", "category", prefs.Resolved(), "topic", prefs.Topic, "style", prefs.Style)

	resp, err := fetch(ctx)
	if err != nil {
		c.fail(err)
		c.logger.Error("failed to generate quote", "category", prefs.Resolved(), "err", err)
		c.notify(notify.KindError, MsgFailed)
		return model.QuoteResult{}, fmt.Errorf("failed to generate quote: %w", err)
	}

	result := model.QuoteResult{
		Text:      resp.Quote,
		Author:    c.authorOrFallback(resp.Author),
		Category:  resp.Category,
		Timestamp: resp.Timestamp,
	}
	if result.Category == "" {
		result.Category = string(prefs.Resolved())
	}
	c.succeed(result)

	if count, err := c.counter.Increment(ctx); err != nil {
		c.logger.Warn("failed to persist request count", "err", err)
	} else {
		c.setCount(count)
	}
	c.record(ctx, prefs, result)

	c.logger.Info("quote generated", "category", result.Category, "author", result.Author, "count", c.Snapshot().Count)
	c.notify(notify.KindSuccess, MsgGenerated)
	return result, nil
}

// Copy writes the displayed quote to the clipboard.
func (c *Controller) Copy() error {
	quote, ok := c.copyTarget()
	if !ok {
		c.notify(notify.KindInfo, MsgNoQuote)
		return nil
	}
	if err := c.clipboard.WriteText(quote.ClipboardText()); err != nil {
		c.logger.Warn("failed to copy quote", "err", err)
		c.notify(notify.KindError, MsgCopyFailed)
		return err
	}
	c.notify(notify.KindSuccess, MsgCopied)
	return nil
}

// LoadCount reads the persisted counter into the display state.
func (c *Controller) LoadCount(ctx context.Context) (int, error) {
	count, err := c.counter.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load request count: %w", err)
	}
	c.setCount(count)
	return count, nil
}

// Snapshot returns the current display state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:   c.state,
		Display: c.displayLocked(),
		Last:    c.last,
		Failed:  c.failed,
		Err:     c.lastErr,
		Count:   c.count,
	}
}

// State returns the request state.
func (c *Controller) State() model.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// WarnThreshold returns the soft limit for the request counter.
func (c *Controller) WarnThreshold() int {
	return c.warnThreshold
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == model.StateInFlight {
		return false
	}
	c.state = model.StateInFlight
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state = model.StateIdle
	c.mu.Unlock()
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.failed = true
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Controller) succeed(result model.QuoteResult) {
	c.mu.Lock()
	c.last = result
	c.failed = false
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Controller) setCount(count int) {
	c.mu.Lock()
	c.count = count
	c.mu.Unlock()
}

func (c *Controller) displayLocked() model.QuoteResult {
	if c.failed && !c.keepOnError {
		return model.QuoteResult{Text: ErrorText}
	}
	return c.last
}

func (c *Controller) copyTarget() (model.QuoteResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed && !c.keepOnError {
		return model.QuoteResult{}, false
	}
	if c.last.Empty() {
		return model.QuoteResult{}, false
	}
	return c.last, true
}

func (c *Controller) warnIfBusyUser(ctx context.Context) {
	count, err := c.counter.Count(ctx)
	if err != nil {
		c.logger.Warn("failed to read request count", "err", err)
		return
	}
	c.setCount(count)
	if count > c.warnThreshold {
		c.notify(notify.KindWarning, MsgSlowDown)
	}
}

func (c *Controller) record(ctx context.Context, prefs model.Preferences, result model.QuoteResult) {
	if c.history == nil {
		return
	}
	_, err := c.history.InsertQuote(ctx, model.HistoryEntry{
		Text:     result.Text,
		Author:   result.Author,
		Category: result.Category,
		Topic:    strings.TrimSpace(prefs.Topic),
		Style:    strings.TrimSpace(prefs.Style),
	})
	if err != nil {
		c.logger.Warn("failed to save quote history", "err", err)
	}
}

func (c *Controller) authorOrFallback(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return c.fallbackAuthor
	}
	return author
}

func (c *Controller) notify(kind notify.Kind, text string) {
	c.notifier.Notify(notify.Notification{Kind: kind, Text: text})
}
