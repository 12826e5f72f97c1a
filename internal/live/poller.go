package live

import (
	"context"
	"errors"
	"time"

	"poker-front/internal/poker"
)

// DefaultPollInterval is the fallback poll period.
const DefaultPollInterval = 2 * time.Second

const fetchTimeout = 10 * time.Second

type Fetcher interface {
	GetGameState(ctx context.Context, tableID string) (poker.GameState, error)
}

// Poller fetches full state over HTTP on a fixed interval. A tick is skipped
// when LastPush reports a socket message newer than the previous tick.
type Poller struct {
	Fetcher  Fetcher
	TableID  string
	Interval time.Duration
	Deliver  func(poker.GameState)
	OnError  func(error)
	LastPush func() time.Time
}

// Run blocks until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastTick := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			quiet := p.LastPush == nil || !p.LastPush().After(lastTick)
			lastTick = now
			if quiet {
				p.FetchOnce(ctx)
			}
		}
	}
}

// FetchOnce performs a single fetch and delivers the result.
func (p *Poller) FetchOnce(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	state, err := p.Fetcher.GetGameState(fetchCtx, p.TableID)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		if p.OnError != nil {
			p.OnError(err)
		}
		return
	}
	if p.Deliver != nil {
		p.Deliver(state)
	}
}
