package supervisor

import (
	"net"
	"strings"
	"time"
)

// Default windows for the per-IP login limiter; mirrors the cooldown
// scale module/conn_limiter.go used (a multiple of the rate window).
const (
	loginRateCooldown  = 2 * time.Second
	loginUnverifyWait  = 20 * time.Second
	loginBanDuration   = time.Minute
)

// filterIP strips the port off a net.Addr's string form, the same way
// the teacher's module.FilterIpFromAddr does, so the limiter keys on
// IP alone regardless of source port.
func filterIP(addr net.Addr) string {
	s := addr.String()
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[:i]
	}
	return s
}

// LoginLimiter gates new login attempts per source IP, independent of
// and layered above the worker pool's backpressure gate (SPEC §7
// supplemented feature: bot/rate-limit filtering). The login rate is
// counted across all IPs; once it exceeds the configured limit within a
// window, each IP's first attempt is refused and its username pinned,
// and the IP is required to keep using that username on every
// subsequent attempt until a cooldown elapses; a second username from
// the same IP during that
// window is treated as bot/credential-stuffing behavior and the IP is
// temporarily blacklisted. Grounded on module/conn_limiter.go's
// botFilterConnLimiter.
type LoginLimiter struct {
	rateLimit    int
	rateCooldown time.Duration
	unverifyWait time.Duration
	banDuration  time.Duration

	limiting           bool
	rateCounter        int
	rateWindowStart    time.Time
	lastTimeAboveLimit time.Time

	seenUsername map[string]string
	blacklist    map[string]time.Time
}

// NewLoginLimiter builds a limiter that allows rateLimit login attempts
// per rateCooldown window before engaging per-IP username pinning;
// banDuration is how long a caught IP stays blacklisted.
func NewLoginLimiter(rateLimit int, rateCooldown, unverifyWait, banDuration time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rateLimit:          rateLimit,
		rateCooldown:       rateCooldown,
		unverifyWait:       unverifyWait,
		banDuration:        banDuration,
		rateWindowStart:    time.Now(),
		lastTimeAboveLimit: time.Now(),
		seenUsername:       make(map[string]string),
		blacklist:          make(map[string]time.Time),
	}
}

// Allow decides whether a login attempt from addr using username
// should proceed. A rateLimit of 0 disables limiting entirely.
func (l *LoginLimiter) Allow(addr net.Addr, username string) bool {
	if l.rateLimit <= 0 {
		return true
	}

	if time.Since(l.rateWindowStart) >= l.rateCooldown {
		if l.rateCounter > l.rateLimit {
			l.lastTimeAboveLimit = l.rateWindowStart
		}
		if l.limiting && time.Since(l.lastTimeAboveLimit) >= l.unverifyWait {
			l.limiting = false
		}
		l.rateCounter = 0
		l.rateWindowStart = time.Now()
	}
	l.rateCounter++

	ip := filterIP(addr)
	if bannedAt, banned := l.blacklist[ip]; banned {
		if time.Since(bannedAt) >= l.banDuration {
			delete(l.blacklist, ip)
		} else {
			return false
		}
	}

	l.limiting = l.limiting || l.rateCounter > l.rateLimit
	if !l.limiting {
		return true
	}

	known, ok := l.seenUsername[ip]
	if !ok {
		l.seenUsername[ip] = username
		return false
	}
	if known != username {
		l.blacklist[ip] = time.Now()
		return false
	}
	return true
}
