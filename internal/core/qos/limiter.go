// Package qos provides the AIMD-based adaptive concurrency limiter that
// hostscan and portscan can select in place of a fixed semaphore, so the
// fan-out width backs off under real congestion instead of a static cap.
package qos

import (
	"context"
	"sync"
	"sync/atomic"
)

// AdaptiveLimiter implements AIMD (Additive Increase / Multiplicative
// Decrease) congestion control for the width of a probe fan-out:
//   - on a successful probe: grow the concurrency limit linearly
//   - on a failed probe (timeout, unreachable, filtered): shrink it
//     multiplicatively
type AdaptiveLimiter struct {
	sem             chan struct{} // concurrency tokens
	reductionNeeded int32         // tokens owed back to the limit on next Release

	currentLimit int // current concurrency limit
	minLimit     int // floor, never shrink below this many in-flight probes
	maxLimit     int // ceiling, never grow past this many in-flight probes

	successCount int        // consecutive successful probes since the last grow/shrink
	mu           sync.Mutex // guards currentLimit and successCount
}

// NewAdaptiveLimiter creates a limiter starting at initial in-flight
// probes, never shrinking below min or growing past max.
func NewAdaptiveLimiter(initial, min, max int) *AdaptiveLimiter {
	if initial < min {
		initial = min
	}
	if initial > max {
		initial = max
	}

	l := &AdaptiveLimiter{
		sem:          make(chan struct{}, max), // sized to the ceiling so growth never reallocates
		currentLimit: initial,
		minLimit:     min,
		maxLimit:     max,
	}

	for i := 0; i < initial; i++ {
		l.sem <- struct{}{}
	}

	return l
}

// Acquire blocks for a token until one is free or ctx is done.
func (l *AdaptiveLimiter) Acquire(ctx context.Context) error {
	select {
	case <-l.sem:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a token after a probe completes. If a prior OnFailure
// left tokens still owed (reductionNeeded), this token pays down that
// debt instead of going back into circulation.
func (l *AdaptiveLimiter) Release() {
	if atomic.LoadInt32(&l.reductionNeeded) > 0 {
		for {
			val := atomic.LoadInt32(&l.reductionNeeded)
			if val <= 0 {
				break
			}
			if atomic.CompareAndSwapInt32(&l.reductionNeeded, val, val-1) {
				return // token retired against the debt, not returned to sem
			}
		}
	}

	select {
	case l.sem <- struct{}{}:
	default:
		// Release called more times than Acquire, or a shrink raced us;
		// drop the token rather than block or panic.
	}
}

// OnSuccess records one successful probe. Additive increase: once
// currentLimit consecutive probes have succeeded, grow the limit by 1 —
// gentler than growing on every single success, and steadier once the
// fan-out has found a stable width.
func (l *AdaptiveLimiter) OnSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.successCount++

	if l.successCount >= l.currentLimit {
		l.successCount = 0
		l.increaseLimit(1)
	}
}

// OnFailure records one failed probe (timeout, unreachable, filtered).
// Multiplicative decrease: cut the limit to 70% immediately, milder than
// TCP's classic 50% halving but still an immediate reaction to the
// first sign of congestion.
func (l *AdaptiveLimiter) OnFailure() {
	l.mu.Lock()
	defer l.mu.Unlock()

	newLimit := int(float64(l.currentLimit) * 0.7)
	decrease := l.currentLimit - newLimit

	if decrease < 1 {
		decrease = 1
	}

	l.decreaseLimit(decrease)
	l.successCount = 0
}

// increaseLimit raises currentLimit by up to n, capped at maxLimit, and
// injects the freed tokens into sem immediately.
func (l *AdaptiveLimiter) increaseLimit(n int) {
	target := l.currentLimit + n
	if target > l.maxLimit {
		target = l.maxLimit
	}

	diff := target - l.currentLimit
	if diff <= 0 {
		return
	}

	l.currentLimit = target
	for i := 0; i < diff; i++ {
		select {
		case l.sem <- struct{}{}:
		default:
			// sem already holds maxLimit tokens; nothing more to inject.
		}
	}
}

// decreaseLimit lowers currentLimit by up to n, floored at minLimit.
// Idle tokens are pulled out of sem immediately; whatever can't be
// pulled because it's checked out to an in-flight probe is recorded as
// reductionNeeded and collected the next time Release runs.
func (l *AdaptiveLimiter) decreaseLimit(n int) {
	target := l.currentLimit - n
	if target < l.minLimit {
		target = l.minLimit
	}

	diff := l.currentLimit - target
	if diff <= 0 {
		return
	}

	l.currentLimit = target

	removed := 0
	for i := 0; i < diff; i++ {
		select {
		case <-l.sem:
			removed++
		default:
			// sem is empty; every token is checked out to a running probe.
		}
	}

	remaining := diff - removed
	if remaining > 0 {
		atomic.AddInt32(&l.reductionNeeded, int32(remaining))
	}
}

// CurrentLimit returns the current concurrency limit.
func (l *AdaptiveLimiter) CurrentLimit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLimit
}
