package session

import (
	"context"
	"time"
)

// Armed reports whether a refresh timer is pending.
func (m *Machine) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

// stopLocked cancels the pending timer and invalidates any refresh in flight.
func (m *Machine) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
	m.refreshing = false
}

// armLocked schedules a refresh after d. Callers run stopLocked first.
func (m *Machine) armLocked(d time.Duration) {
	if d <= 0 {
		m.logger.Warn().Msg("token lifetime unknown, refresh not scheduled")
		return
	}
	gen := m.generation
	m.timer = m.clock.AfterFunc(d, func() { m.refresh(gen) })
	m.logger.Debug().Dur("in", d).Msg("refresh scheduled")
}

func (m *Machine) refresh(gen uint64) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.refreshing = true
	m.mu.Unlock()

	ctx := m.ctx
	sess := m.store.Read(ctx)
	if !sess.Valid() {
		m.metrics.Refreshes.WithLabelValues("missing").Inc()
		m.resetIf(ctx, gen, ReasonMissingTokens)
		return
	}

	res, err := m.gateway.Refresh(ctx, RefreshRequest{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
	if err != nil || !res.ok() {
		if ctx.Err() != nil {
			return
		}
		m.metrics.Refreshes.WithLabelValues("failed").Inc()
		m.logger.Warn().Err(err).Stringer("status", res).Msg("token refresh failed")
		m.resetIf(ctx, gen, ReasonRefreshFailed)
		return
	}

	next := fromTokens(res.Tokens)
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.metrics.Refreshes.WithLabelValues("superseded").Inc()
		return
	}
	m.stopLocked()
	m.store.stage(next)
	m.armLocked(lifetime(res.Tokens, m.clock.Now()))
	m.mu.Unlock()
	m.store.flush(ctx)

	m.metrics.Refreshes.WithLabelValues("ok").Inc()
	m.emit(Event{Kind: EventRefreshed, Session: next})
}

// resetIf resets only when no newer transition has superseded gen.
func (m *Machine) resetIf(ctx context.Context, gen uint64, reason Reason) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	m.store.stage(Session{})
	m.mu.Unlock()
	m.store.flush(ctx)
	m.finishReset(reason)
}
