package api

import (
	"context"
	"errors"
	"time"

	"github.com/chatads/chatads-go/internal/apierrors"
)

// Recorder observes attempts, retries and finished calls.
type Recorder interface {
	ObserveAttempt(outcome string, elapsed time.Duration)
	ObserveRetry(reason string, delay time.Duration)
	ObserveCall(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAttempt(string, time.Duration) {}
func (nopRecorder) ObserveRetry(string, time.Duration)   {}
func (nopRecorder) ObserveCall(string, time.Duration)    {}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryable
	outcomeFatal
)

// outcome is the classified result of one attempt.
type outcome struct {
	kind     outcomeKind
	envelope *Envelope
	err      error
	hint     time.Duration
	hasHint  bool
}

type state int

const (
	stateAttempt state = iota
	stateEvaluate
	stateWait
	stateSucceeded
	stateFailed
)

// Post sends body to the endpoint and runs the retry loop until the call
// succeeds, fails fatally, or exhausts its retry budget.
func (c *Client) Post(ctx context.Context, body map[string]any, call CallOptions) (*Envelope, error) {
	ex, err := c.prepare(body, call)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var (
		st      = stateAttempt
		attempt int
		last    outcome
		result  *Envelope
		failure error
	)

	for {
		switch st {
		case stateAttempt:
			began := time.Now()
			env, err := c.execute(ctx, ex, attempt)
			last = c.classify(env, err)
			c.recorder.ObserveAttempt(OutcomeLabel(err), time.Since(began))
			st = stateEvaluate

		case stateEvaluate:
			switch {
			case last.kind == outcomeSuccess:
				result = last.envelope
				st = stateSucceeded
			case last.kind == outcomeFatal:
				failure = last.err
				st = stateFailed
			case c.retry.Exhausted(attempt):
				failure = exhausted(last.err)
				st = stateFailed
			default:
				st = stateWait
			}

		case stateWait:
			delay := c.retry.Delay(attempt, last.hint, last.hasHint)
			c.recorder.ObserveRetry(OutcomeLabel(last.err), delay)
			if err := c.wait(ctx, delay); err != nil {
				failure = apierrors.New(apierrors.ErrCanceled, "ChatAds request canceled", err)
				st = stateFailed
				continue
			}
			attempt++
			st = stateAttempt

		case stateSucceeded:
			c.recorder.ObserveCall(OutcomeLabel(nil), time.Since(started))
			return result, nil

		case stateFailed:
			c.recorder.ObserveCall(OutcomeLabel(failure), time.Since(started))
			return nil, failure
		}
	}
}

// classify sorts an attempt result into success, retryable or fatal.
// Timeouts, cancellations, parse failures and non-transient statuses are
// fatal; transient statuses and transport failures are retryable.
func (c *Client) classify(env *Envelope, err error) outcome {
	if err == nil {
		return outcome{kind: outcomeSuccess, envelope: env}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if !c.retry.Retryable(apiErr.StatusCode) {
			return outcome{kind: outcomeFatal, err: err}
		}
		hint, ok := ParseRetryAfter(apiErr.RetryAfter(), c.now())
		return outcome{kind: outcomeRetryable, err: err, hint: hint, hasHint: ok}
	}

	var sdkErr *apierrors.SDKError
	if errors.As(err, &sdkErr) {
		return outcome{kind: outcomeFatal, err: err}
	}

	return outcome{kind: outcomeRetryable, err: err}
}

// exhausted converts the last retryable error into what the caller sees once
// no retries are left. API errors surface as they are.
func exhausted(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return apierrors.New(apierrors.ErrTransport, "Unexpected error while calling ChatAds", err)
}

// OutcomeLabel names an attempt or call result for metrics.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apierrors.ErrTimeout):
		return "timeout"
	case errors.Is(err, apierrors.ErrCanceled):
		return "canceled"
	case errors.Is(err, apierrors.ErrParse):
		return "parse_error"
	case errors.Is(err, apierrors.ErrEncode):
		return "encode_error"
	case errors.Is(err, apierrors.ErrAPI):
		return "api_error"
	default:
		return "transport_error"
	}
}
