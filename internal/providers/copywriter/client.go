package copywriter

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"adcraft/internal/domain/adcopy"
)

// FailureMessage is the only text a caller ever sees for a failed generation.
const FailureMessage = "Failed to generate ad copy. Please try again."

// ErrEmptyResponse is the cause recorded when the model returns no text.
var ErrEmptyResponse = errors.New("No response generated")

// ErrMissingAPIKey is returned by backend constructors without credentials.
var ErrMissingAPIKey = errors.New("api key is required")

// Request is one generation: the form contents plus the preferred output
// language of the reader.
type Request struct {
	Ad     adcopy.AdRequest
	Locale string
}

// Prompt is what a backend sends upstream: the instruction text and the
// schema the reply must follow. Source is the request it was built from.
type Prompt struct {
	Text   string
	Schema *Schema
	Source Request
}

// Backend performs the single upstream call and returns the raw model text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Kind classifies why a generation failed.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindEmptyResponse
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindEmptyResponse:
		return "empty_response"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// GenerationError is returned for every failed generation. Error() is the
// generic user-facing message; the cause stays reachable through Unwrap.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return FailureMessage
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type Option func(*Client)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client turns an ad request into one backend call and a validated response.
type Client struct {
	backend Backend
	logger  zerolog.Logger
}

func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{backend: backend, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider names the backend in use.
func (c *Client) Provider() string {
	return c.backend.Name()
}

// Generate builds the prompt, calls the backend once and decodes the reply.
// No retries are attempted.
func (c *Client) Generate(ctx context.Context, req Request) (*adcopy.AdResponse, error) {
	prompt := Prompt{
		Text:   BuildPrompt(req),
		Schema: ResponseSchema(),
		Source: req,
	}
	text, err := c.backend.Complete(ctx, prompt)
	if err != nil {
		return nil, c.fail(ctx, KindTransport, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, c.fail(ctx, KindEmptyResponse, ErrEmptyResponse)
	}
	res, err := DecodeResponse(text)
	if err != nil {
		return nil, c.fail(ctx, KindSchema, err)
	}
	c.log(ctx).Debug().
		Str("provider", c.backend.Name()).
		Int("hashtags", len(res.Hashtags)).
		Msg("ad copy generated")
	return res, nil
}

func (c *Client) fail(ctx context.Context, kind Kind, cause error) error {
	c.log(ctx).Error().
		Err(cause).
		Str("provider", c.backend.Name()).
		Stringer("kind", kind).
		Msg("ad copy generation failed")
	return &GenerationError{Kind: kind, Err: cause}
}

func (c *Client) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &c.logger
}
