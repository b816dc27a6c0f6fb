package prover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/yourorg/btczk/pkg/witness"
)

// Job states reported by the proving network.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// ProofJob is the proving network's view of a submitted request.
type ProofJob struct {
	ID      string   `json:"id"`
	State   string   `json:"state"`
	Error   string   `json:"error,omitempty"`
	Fixture *Fixture `json:"fixture,omitempty"`
}

type jobRequest struct {
	Circuit Variant         `json:"circuit"`
	Backend Backend         `json:"backend"`
	Bundle  *witness.Bundle `json:"bundle"`
}

// RemoteClient submits witness bundles to a remote proving network and polls
// for completion. Wrapped proofs need far more memory than the execute pass,
// so heavy backends are the natural thing to delegate. Cancellation stops
// polling only; the remote job may still run to completion and its result is
// discarded.
type RemoteClient struct {
	http *resty.Client
	log  zerolog.Logger

	pollInterval time.Duration
	maxInterval  time.Duration
}

// RemoteOption configures a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithRemoteLogger attaches a structured logger.
func WithRemoteLogger(log zerolog.Logger) RemoteOption {
	return func(c *RemoteClient) { c.log = log }
}

// WithPollInterval overrides the initial poll interval. The interval doubles
// on each empty poll up to ten times the initial value.
func WithPollInterval(d time.Duration) RemoteOption {
	return func(c *RemoteClient) {
		c.pollInterval = d
		c.maxInterval = 10 * d
	}
}

// NewRemoteClient builds a client against the network's base URL.
func NewRemoteClient(baseURL string, opts ...RemoteOption) *RemoteClient {
	c := &RemoteClient{
		http:         resty.New().SetBaseURL(baseURL),
		log:          zerolog.Nop(),
		pollInterval: 2 * time.Second,
		maxInterval:  20 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends a bundle for proving and returns the job ID.
func (c *RemoteClient) Submit(ctx context.Context, bundle *witness.Bundle, variant Variant, backend Backend) (string, error) {
	var job ProofJob
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(jobRequest{Circuit: variant, Backend: backend, Bundle: bundle}).
		SetResult(&job).
		Post("/v1/proofs")
	if err != nil {
		return "", fmt.Errorf("submit proof job: %v: %w", err, ErrBackendFailure)
	}
	if resp.IsError() {
		return "", fmt.Errorf("submit proof job: %s: %w", resp.Status(), ErrBackendFailure)
	}
	if job.ID == "" {
		return "", fmt.Errorf("submit proof job: empty job id: %w", ErrBackendFailure)
	}
	c.log.Info().Str("job", job.ID).Str("circuit", string(variant)).Str("backend", string(backend)).Msg("proof job submitted")
	return job.ID, nil
}

// Status fetches the current state of a job.
func (c *RemoteClient) Status(ctx context.Context, id string) (*ProofJob, error) {
	var job ProofJob
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&job).
		Get("/v1/proofs/" + id)
	if err != nil {
		return nil, fmt.Errorf("poll job %s: %v: %w", id, err, ErrBackendFailure)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("poll job %s: %s: %w", id, resp.Status(), ErrBackendFailure)
	}
	return &job, nil
}

// Wait polls until the job completes or ctx is done. The caller owns the
// deadline; a deadline hit maps to ErrTimeout. Results arriving after ctx is
// done are never returned.
func (c *RemoteClient) Wait(ctx context.Context, id string) (*Fixture, error) {
	interval := c.pollInterval
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("job %s: %w", id, ErrTimeout)
			}
			return nil, ctx.Err()
		case <-timer.C:
		}

		job, err := c.Status(ctx, id)
		if err != nil {
			return nil, err
		}
		switch job.State {
		case JobDone:
			if job.Fixture == nil {
				return nil, fmt.Errorf("job %s done without fixture: %w", id, ErrBackendFailure)
			}
			c.log.Info().Str("job", id).Msg("proof job completed")
			return job.Fixture, nil
		case JobFailed:
			return nil, fmt.Errorf("job %s: %s: %w", id, job.Error, ErrBackendFailure)
		case JobPending, JobRunning:
			c.log.Debug().Str("job", id).Str("state", job.State).Dur("next_poll", interval).Msg("proof job in flight")
		default:
			return nil, fmt.Errorf("job %s: unknown state %q: %w", id, job.State, ErrBackendFailure)
		}

		timer.Reset(interval)
		if interval < c.maxInterval {
			interval *= 2
			if interval > c.maxInterval {
				interval = c.maxInterval
			}
		}
	}
}
