// Package ratelimit throttles credential guessing on the sign-in endpoint.
// Limits are fixed windows kept in process memory; a restart forgets them,
// which is acceptable for login throttling.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Sign-in attempt caps. The per-address cap absorbs bursts from shared
// NATs (a school or city office on one IP); the per-email cap is tighter
// because repeated attempts on one account are the attack that matters.
const (
	AddressAttempts = 10
	AddressWindow   = time.Minute
	AccountAttempts = 5
	AccountWindow   = 5 * time.Minute
)

// Limiter counts events per key over a fixed window. Safe for concurrent
// use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit events per window for each key.
func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go l.sweep()
	return l
}

// Allow records an event for key and reports whether it fit the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.expiresAt) {
		l.buckets[key] = &bucket{count: 1, expiresAt: now.Add(l.window)}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// Remaining reports how many events key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || time.Now().After(b.expiresAt) {
		return l.limit
	}
	if rem := l.limit - b.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset clears the count for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// sweep drops expired buckets so the map does not grow without bound.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(2 * l.window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			if now.After(b.expiresAt) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the caller's address, preferring the proxy headers
// the deployment's reverse proxy sets over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the original client.
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter pairs the per-address and per-account caps for the sign-in
// handler.
type LoginLimiter struct {
	byAddress *Limiter
	byAccount *Limiter
}

// NewLoginLimiter builds a limiter with the package's sign-in caps.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		byAddress: New(AddressAttempts, AddressWindow),
		byAccount: New(AccountAttempts, AccountWindow),
	}
}

// NewLoginLimiterWithCaps builds a limiter with explicit caps. Tests use
// it to exercise the limits without waiting out the real windows.
func NewLoginLimiterWithCaps(addrLimit int, addrWindow time.Duration, acctLimit int, acctWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byAddress: New(addrLimit, addrWindow),
		byAccount: New(acctLimit, acctWindow),
	}
}

// Check records a sign-in attempt and reports whether it may proceed,
// with a user-facing reason when it may not.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.byAddress.Allow(ClientIP(r)) {
		return false, "Too many sign-in attempts. Please wait a minute before trying again."
	}
	if email != "" {
		if !ll.byAccount.Allow(strings.ToLower(strings.TrimSpace(email))) {
			return false, "Too many sign-in attempts for this account. Please wait a few minutes."
		}
	}
	return true, ""
}

// ResetEmail clears the account cap after a successful sign-in.
func (ll *LoginLimiter) ResetEmail(email string) {
	if email != "" {
		ll.byAccount.Reset(strings.ToLower(strings.TrimSpace(email)))
	}
}
