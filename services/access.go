// Package services holds the business rules that sit between the HTTP
// handlers and the store.
// file: services/access.go
package services

import (
	"context"

	"founders-fest/logger"
)

// Outcome is the result of an access check.
type Outcome int

const (
	// Pending means the check did not finish; the caller must render nothing.
	Pending Outcome = iota
	// Denied means the caller must be sent to the login page.
	Denied
	// Granted means the protected content may be served.
	Granted
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "pending"
}

// AllowList answers whether a user may use the admin area.
type AllowList interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AccessGuard decides whether a session may see admin pages. It fails
// closed: no session, a lookup error or a missing allow-list row all deny.
type AccessGuard struct {
	allow AllowList
}

// NewAccessGuard returns a guard backed by allow.
func NewAccessGuard(allow AllowList) *AccessGuard {
	return &AccessGuard{allow: allow}
}

// Resolve checks userID against the allow-list. userID 0 means no session.
// If ctx ends before the lookup completes, Resolve returns Pending.
func (g *AccessGuard) Resolve(ctx context.Context, userID uint) Outcome {
	if userID == 0 {
		return Denied
	}

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := g.allow.IsAdmin(ctx, userID)
		done <- result{ok, err}
	}()

	select {
	case <-ctx.Done():
		return Pending
	case r := <-done:
		if ctx.Err() != nil {
			return Pending
		}
		if r.err != nil {
			logger.Warn.Printf("[AccessGuard] Allow-list lookup failed for user %d: %v", userID, r.err)
			return Denied
		}
		if !r.ok {
			logger.Info.Printf("[AccessGuard] User %d is not an admin", userID)
			return Denied
		}
		return Granted
	}
}
