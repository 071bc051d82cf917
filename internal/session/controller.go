// Package session coordinates client-side searches: debounce, filter
// signatures, cancellation of superseded requests, and applying
// responses in intent order rather than network arrival order.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/search"
)

// SearchFunc is the transport issuing one search. It must honor ctx
// cancellation; an aborted call must stop consuming resources.
type SearchFunc func(ctx context.Context, filter domain.SearchFilter) (*domain.SearchResultPage, error)

// Listener receives session transitions. Callbacks fire off the
// caller's goroutine; implementations marshal onto their own UI loop.
type Listener interface {
	SearchStarted(seq uint64, filter domain.SearchFilter)
	SearchCompleted(seq uint64, page *domain.SearchResultPage)
	SearchFailed(seq uint64, err error)
}

// State of a session.
type State int

const (
	Idle State = iota
	Searching
)

const (
	DefaultDebounce = 400 * time.Millisecond
	DefaultTimeout  = 30 * time.Second
)

// Controller is the search session state machine. Every filter change
// bumps a sequence number; only the response carrying the current
// sequence is ever applied, so a slow stale response can never clobber
// a faster newer one. Last request wins by intent, not arrival time.
type Controller struct {
	transport SearchFunc
	listener  Listener
	debounce  time.Duration
	timeout   time.Duration

	mu            sync.Mutex
	state         State
	seq           uint64
	activeSig     string
	completedSig  string
	pendingCancel context.CancelFunc
	pendingTimer  *time.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the quiet period for filter-driven updates.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithTimeout sets the per-request timeout. A timed-out request is
// indistinguishable from a cancelled one to the session.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// NewController creates a session controller around a transport.
func NewController(transport SearchFunc, listener Listener, opts ...Option) *Controller {
	c := &Controller{
		transport: transport,
		listener:  listener,
		debounce:  DefaultDebounce,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update registers a filter-driven change. The request is issued after
// the debounce quiet period unless a newer change supersedes it first.
// An invalid filter fails immediately through the listener.
func (c *Controller) Update(raw search.RawFilter) {
	c.schedule(raw, true)
}

// Submit registers an explicit search submission, bypassing debounce.
func (c *Controller) Submit(raw search.RawFilter) {
	c.schedule(raw, false)
}

func (c *Controller) schedule(raw search.RawFilter, debounced bool) {
	filter, err := search.NormalizeFilter(raw)
	if err != nil {
		c.mu.Lock()
		seq := c.seq
		c.mu.Unlock()
		if c.listener != nil {
			c.listener.SearchFailed(seq, err)
		}
		return
	}

	sig := Signature(filter)

	c.mu.Lock()
	if sig == c.activeSig && sig == c.completedSig && c.state == Idle {
		// Already answered this exact filter; no redundant call.
		c.mu.Unlock()
		return
	}

	c.seq++
	seq := c.seq
	c.activeSig = sig
	c.cancelPendingLocked()

	if debounced && c.debounce > 0 {
		c.pendingTimer = time.AfterFunc(c.debounce, func() {
			c.fire(seq, filter, sig)
		})
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.fire(seq, filter, sig)
}

// fire issues the request for seq unless a newer change already
// superseded it while the debounce timer was pending.
func (c *Controller) fire(seq uint64, filter domain.SearchFilter, sig string) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.pendingCancel = cancel
	c.state = Searching
	c.mu.Unlock()

	if c.listener != nil {
		c.listener.SearchStarted(seq, filter)
	}

	go func() {
		defer cancel()
		page, err := c.transport(ctx, filter)
		c.apply(seq, sig, page, err)
	}()
}

// apply installs a response into session state, but only when its
// sequence is still current. Failures of superseded or cancelled
// requests are swallowed; they are routine, not user-facing errors.
func (c *Controller) apply(seq uint64, sig string, page *domain.SearchResultPage, err error) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.state = Idle
	c.pendingCancel = nil
	if err == nil {
		c.completedSig = sig
	}
	c.mu.Unlock()

	if c.listener == nil {
		return
	}
	if err != nil {
		if isCancellation(err) {
			return
		}
		c.listener.SearchFailed(seq, err)
		return
	}
	c.listener.SearchCompleted(seq, page)
}

// Cancel aborts any pending or in-flight request without starting a
// new one. The session returns to Idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.cancelPendingLocked()
	c.state = Idle
}

// State reports the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sequence reports the current generation counter.
func (c *Controller) Sequence() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

func (c *Controller) cancelPendingLocked() {
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	if c.pendingCancel != nil {
		c.pendingCancel()
		c.pendingCancel = nil
	}
}

func isCancellation(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var derr *domain.DomainError
	return errors.As(err, &derr) && derr.Code == domain.ErrCodeCancelled
}

// signaturePayload is the canonical encoding hashed into a filter
// signature. Value lists are sorted copies so equal filters hash equal
// regardless of input order.
type signaturePayload struct {
	Query    string   `json:"q"`
	Mode     string   `json:"mode"`
	HSCodes  []string `json:"hs"`
	Origins  []string `json:"origin"`
	Dests    []string `json:"dest"`
	Carriers []string `json:"carrier"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// Signature returns a stable hash of a normalized filter, used to
// detect redundant and superseded searches.
func Signature(f domain.SearchFilter) string {
	p := signaturePayload{
		Query:    f.Query,
		Mode:     string(f.Mode),
		HSCodes:  sortedCopy(f.HSCodes),
		Origins:  sortedCopy(f.Origins),
		Dests:    sortedCopy(f.Dests),
		Carriers: sortedCopy(f.Carriers),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if f.DateRange != nil {
		p.Start = f.DateRange.Start.UTC().Format(time.RFC3339)
		p.End = f.DateRange.End.UTC().Format(time.RFC3339)
	}
	raw, _ := json.Marshal(p)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
