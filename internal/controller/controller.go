package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"adcraft/internal/domain/adcopy"
	"adcraft/internal/providers/copywriter"
)

// FallbackMessage is shown when a failure carries no description.
const FallbackMessage = "Something went wrong"

const subscriberBuffer = 8

// Generator produces ad copy for a request.
type Generator interface {
	Generate(ctx context.Context, req copywriter.Request) (*adcopy.AdResponse, error)
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithLocale sets the output language hint passed to the generator.
func WithLocale(locale string) Option {
	return func(c *Controller) {
		c.locale = locale
	}
}

// Controller owns one form and its result state.
//
// Every Submit and Reset advances a sequence number. A finished generation
// is applied only while its number is still the latest, so a slow response
// can never overwrite a newer submission or a reset form.
type Controller struct {
	gen    Generator
	logger zerolog.Logger

	mu      sync.Mutex
	locale  string
	form    adcopy.AdRequest
	state   State
	seq     uint64
	subs    map[int]chan State
	nextSub int
	closed  bool

	wg sync.WaitGroup
}

func New(gen Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:    gen,
		logger: zerolog.Nop(),
		form:   adcopy.DefaultAdRequest(),
		state:  Idle(),
		subs:   make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateField sets one form attribute. Only the form changes.
func (c *Controller) UpdateField(field adcopy.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Set(field, value)
}

// FieldUpdate is one entry of UpdateFields.
type FieldUpdate struct {
	Field adcopy.Field
	Value string
}

// UpdateFields applies every update or none of them. Concurrent callers see
// the batch as a single change.
func (c *Controller) UpdateFields(updates []FieldUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	form := c.form
	for _, u := range updates {
		if err := form.Set(u.Field, u.Value); err != nil {
			return err
		}
	}
	c.form = form
	return nil
}

// SetLocale changes the output language hint for later submissions.
func (c *Controller) SetLocale(locale string) {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
}

func (c *Controller) Locale() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// Request returns a copy of the current form.
func (c *Controller) Request() adcopy.AdRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset restores the default form and the idle state. Generations still in
// flight are discarded when they finish.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.form = adcopy.DefaultAdRequest()
	c.setStateLocked(Idle())
}

// Submit validates the form and, when valid, starts a generation in the
// background. A blank product name or description moves straight to the
// error state without contacting the generator.
//
// The generation runs with ctx's values but not its cancellation: once
// issued, a request always runs to completion.
func (c *Controller) Submit(ctx context.Context) *Submission {
	c.mu.Lock()
	c.seq++
	sub := newSubmission(c.seq)
	if c.closed {
		c.mu.Unlock()
		sub.finish(Failed(sub.Seq, FallbackMessage), false)
		return sub
	}
	form := c.form
	if err := form.Validate(); err != nil {
		st := Failed(sub.Seq, err.Error())
		c.setStateLocked(st)
		c.mu.Unlock()
		sub.finish(st, true)
		return sub
	}
	req := copywriter.Request{Ad: form, Locale: c.locale}
	c.setStateLocked(Loading(sub.Seq))
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx), req, sub)
	return sub
}

func (c *Controller) run(ctx context.Context, req copywriter.Request, sub *Submission) {
	defer c.wg.Done()

	res, err := c.gen.Generate(ctx, req)
	var st State
	switch {
	case err != nil:
		st = Failed(sub.Seq, failureMessage(err))
	case res == nil:
		st = Failed(sub.Seq, FallbackMessage)
	default:
		st = Succeeded(sub.Seq, res)
	}

	c.mu.Lock()
	applied := c.seq == sub.Seq
	if applied {
		c.setStateLocked(st)
	}
	c.mu.Unlock()

	if !applied {
		c.logger.Debug().
			Uint64("seq", sub.Seq).
			Stringer("phase", st.Phase).
			Msg("discarding superseded generation result")
	}
	sub.finish(st, applied)
}

func failureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// Subscribe returns a channel that first receives the current state and then
// every state applied afterwards. Slow readers lose intermediate states but
// always see the latest one. Call the returned function to unsubscribe.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan State, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close waits for in-flight generations and ends all subscriptions.
// Submissions after Close fail without contacting the generator.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *Controller) setStateLocked(st State) {
	c.state = st
	for _, ch := range c.subs {
		select {
		case ch <- st:
		default:
			// Drop the oldest pending state so the newest always fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}
