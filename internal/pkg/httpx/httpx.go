package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusError is a non-2xx response with its (truncated) body.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.Status }

func IsRetryableHTTPStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// JitterSleep returns base +/- 20%.
func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

// RetryPolicy bounds DoWithRetry.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	MaxSleep time.Duration
}

// DoWithRetry sends the request built by newReq, retrying transient failures.
// It returns the body of the first 2xx response.
func DoWithRetry(ctx context.Context, client *http.Client, policy RetryPolicy, newReq func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := newReq(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		var sleep time.Duration
		if err == nil {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				err = readErr
			} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
				err = &StatusError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
				sleep = RetryAfterDuration(resp, policy.Backoff, policy.MaxSleep)
			} else {
				return body, nil
			}
		}
		lastErr = err
		if !IsRetryableError(err) || i == attempts-1 {
			break
		}
		if sleep == 0 {
			sleep = policy.Backoff << i
			if policy.MaxSleep > 0 && sleep > policy.MaxSleep {
				sleep = policy.MaxSleep
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(JitterSleep(sleep)):
		}
	}
	return nil, lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
