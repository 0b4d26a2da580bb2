package services

import (
	"strings"
	"time"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
)

// Clock returns the current instant. Services take one so lesson gating is testable.
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func defaultLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func requireUser(op string, p types.Principal) error {
	if !p.Authenticated() {
		return domainagg.Unauthorized(op, "Unauthorized")
	}
	return nil
}

func requireAdmin(op string, p types.Principal) error {
	if !p.IsAdmin() {
		return domainagg.Unauthorized(op, "Unauthorized")
	}
	return nil
}

func internalError(op string, err error) error {
	return domainagg.NewError(domainagg.CodeInternal, op, "Internal error", err)
}

// passthrough keeps coded errors and wraps anything else as internal.
func passthrough(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return internalError(op, err)
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
