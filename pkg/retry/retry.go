// Package retry re-runs an API operation while the server answers
// 409 Conflict, with a fixed attempt budget and a fixed delay.
package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

const (
	// DefaultAttempts is the number of conflict retries after the first call.
	DefaultAttempts = 10
	// DefaultDelay is the pause before each conflict retry.
	DefaultDelay = time.Second
)

// WaitFunc pauses between attempts. It must return early with ctx.Err()
// when ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// NotifyFunc is called before each wait with the retry number (1-based)
// and the error that caused it.
type NotifyFunc func(retry int, err error, delay time.Duration)

// Policy bounds conflict retries. Attempts is the number of retries allowed
// after the first call, so a call runs at most Attempts+1 times.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Wait     WaitFunc
	Notify   NotifyFunc
	Logger   logrus.FieldLogger
}

// DefaultPolicy retries up to 10 times, one second apart.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// Class is the retry-relevant category of an operation error.
type Class int

// Error classes returned by Classify. Only ClassConflict is retried.
const (
	ClassNone         Class = iota // no error
	ClassConflict                  // HTTP 409, retriable
	ClassUnauthorized              // HTTP 401
	ClassHTTP                      // any other non-2xx status
	ClassTransport                 // no HTTP response at all
	ClassOther                     // local failures such as decoding
)

// Classify maps err onto the retry taxonomy.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}

	var trErr *transport.Error
	if !errors.As(err, &trErr) {
		return ClassOther
	}

	switch {
	case !trErr.HasResponse():
		return ClassTransport
	case trErr.StatusCode == http.StatusConflict:
		return ClassConflict
	case trErr.StatusCode == http.StatusUnauthorized:
		return ClassUnauthorized
	default:
		return ClassHTTP
	}
}

// Message is the text reported in a Failed result: the server status
// description when there is one, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var trErr *transport.Error
	if errors.As(err, &trErr) && trErr.StatusText != "" {
		return trErr.StatusText
	}
	return err.Error()
}

// Do runs op and retries it on conflict. Attempts never overlap. A 401 ends
// the loop at once with AuthenticationFailed; every other error becomes
// Failed.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) result.Result[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	p = normalize(p)

	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			return result.Failed[T](err.Error())
		}

		value, err := op(ctx)
		switch Classify(err) {
		case ClassNone:
			return result.Success(value)
		case ClassUnauthorized:
			return result.AuthenticationFailed[T]()
		case ClassConflict:
			if retries >= p.Attempts {
				p.Logger.WithField("attempts", retries+1).Warn("retry: conflict persisted, giving up")
				return result.Failed[T](Message(err))
			}
			retries++
			if p.Notify != nil {
				p.Notify(retries, err, p.Delay)
			}
			p.Logger.WithFields(logrus.Fields{
				"retry": retries,
				"delay": p.Delay,
			}).Info("retry: server reported conflict, retrying")
			if waitErr := p.Wait(ctx, p.Delay); waitErr != nil {
				return result.Failed[T](waitErr.Error())
			}
		default:
			return result.Failed[T](Message(err))
		}
	}
}

func normalize(p Policy) Policy {
	if p.Attempts < 0 {
		p.Attempts = 0
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.Wait == nil {
		p.Wait = SleepWithContext
	}
	if p.Logger == nil {
		p.Logger = transport.DiscardLogger()
	}
	return p
}

// SleepWithContext waits for d or until ctx is done. It is the default
// WaitFunc.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
