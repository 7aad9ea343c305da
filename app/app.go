package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const tokenPreviewLength = 20

var ErrMissingField = errors.New("response missing field")

type requester interface {
	Get(ctx context.Context, path string, headers Headers) (*Response, error)
	Post(ctx context.Context, path string, headers Headers, body interface{}) (*Response, error)
}

type limiter interface {
	Wait(context.Context) error
}

type App struct {
	Config       Config
	CheckGenesis bool
	Results      *Results
	client       requester
	printer      *Printer
	limiter      limiter
	logger       zerolog.Logger
	genesis      json.RawMessage
}

// Results records how far a run got.
type Results struct {
	Completed []string
	Err       error
}

func (r *Results) Aborted() bool {
	return r.Err != nil
}

func NewApp(
	cfg Config,
	client requester,
	printer *Printer,
	logger zerolog.Logger,
) *App {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &App{
		Config:  cfg,
		client:  client,
		printer: printer,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		Results: &Results{
			Completed: []string{},
		},
	}
}

// Run executes every step in order. A transport or parse failure stops the
// remaining steps; it is reported on the printer and recorded in Results,
// never returned.
func (a *App) Run(ctx context.Context) *Results {
	a.printer.Section("RedTeamCoin API Testing")
	a.printer.Printf("API URL: %s\n", a.Config.BaseURL)
	a.printer.Printf("TLS: %t\n", a.Config.TLSEnabled)
	a.printer.Printf("Verify SSL: %t\n", a.Config.VerifySSL)
	a.printer.Printf("Using token: %s...\n", truncate(a.Config.AuthToken, tokenPreviewLength))

	for _, step := range a.Steps() {
		a.printer.Section(step.Title)

		out, err := step.Run(ctx)
		if err != nil {
			a.abort(step.Title, err)

			break
		}

		a.printer.Println(out)
		a.Results.Completed = append(a.Results.Completed, step.Title)
	}

	a.printer.Section("Testing Complete")
	a.logger.Info().
		Int("completed", len(a.Results.Completed)).
		Bool("aborted", a.Results.Aborted()).
		Msg("run finished")

	return a.Results
}

func (a *App) abort(title string, err error) {
	a.Results.Err = fmt.Errorf("%s: %w", title, err)
	a.logger.Warn().Err(err).Str("step", title).Msg("aborting remaining steps")

	if errors.Is(err, ErrConnection) {
		a.printer.Fatal("Could not connect to server. Is it running?")

		return
	}

	a.printer.Fatal(err.Error())
}

func (a *App) authHeaders() Headers {
	return AuthHeaders(a.Config.AuthToken)
}

func (a *App) call(
	ctx context.Context,
	method, path string,
	headers Headers,
	body interface{},
) (*Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error while rate limiting: %w", err)
	}

	if method == http.MethodPost {
		return a.client.Post(ctx, path, headers, body)
	}

	return a.client.Get(ctx, path, headers)
}
