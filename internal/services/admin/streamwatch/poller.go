// Package streamwatch polls an auction's on-air state while a stream control
// view is open and pushes changes to it.
package streamwatch

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/platform/timeouts"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
)

// AuctionFetcher loads the auction being watched.
type AuctionFetcher interface {
	GetAuction(ctx context.Context, id string) (marketapi.Auction, error)
}

// Snapshot is the on-air state pushed to the view.
type Snapshot struct {
	AuctionID      string                  `json:"auction_id"`
	OnAir          bool                    `json:"on_air"`
	Status         marketapi.AuctionStatus `json:"status"`
	StartedAt      string                  `json:"started_at,omitempty"`
	ElapsedSeconds int64                   `json:"elapsed_seconds"`
	Elapsed        string                  `json:"elapsed"`
	StreamURL      string                  `json:"stream_url,omitempty"`
	Error          string                  `json:"error,omitempty"`
	Unauthorized   bool                    `json:"unauthorized,omitempty"`
}

// sameState compares snapshots ignoring the ever-growing elapsed time.
func sameState(a, b Snapshot) bool {
	a.ElapsedSeconds, b.ElapsedSeconds = 0, 0
	a.Elapsed, b.Elapsed = "", ""
	return a == b
}

// FormatElapsed renders a duration as mm:ss; hours roll into minutes.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Poller watches auctions at a fixed interval.
type Poller struct {
	interval time.Duration
	now      func() time.Time
	metrics  *metrics.Registry
}

// NewPoller builds a Poller; a non-positive interval uses timeouts.StreamPoll.
func NewPoller(interval time.Duration, reg *metrics.Registry) *Poller {
	if interval <= 0 {
		interval = timeouts.StreamPoll
	}
	return &Poller{interval: interval, now: time.Now, metrics: reg}
}

// Snapshot loads the auction once and reports its on-air state.
func (p *Poller) Snapshot(ctx context.Context, fetch AuctionFetcher, auctionID string) Snapshot {
	snap := Snapshot{AuctionID: auctionID}
	auction, err := fetch.GetAuction(ctx, auctionID)
	if err != nil {
		snap.Status = marketapi.AuctionUnknown
		snap.Error = apperrors.UserMessage(err, "Failed to refresh stream status")
		snap.Unauthorized = apperrors.CodeOf(err) == apperrors.CodeUnauthorized
		snap.Elapsed = FormatElapsed(0)
		return snap
	}
	now := p.now()
	elapsed := auction.StreamElapsed(now)
	snap.OnAir = auction.OnAir()
	snap.Status = auction.StatusAt(now)
	snap.StreamURL = auction.StreamURL
	if snap.OnAir {
		snap.StartedAt = auction.StreamStartedAt
	}
	snap.ElapsedSeconds = int64(elapsed / time.Second)
	snap.Elapsed = FormatElapsed(elapsed)
	return snap
}

// Watch emits an initial snapshot, then one snapshot per observed change,
// until ctx is cancelled or an unauthorized response ends the session. The
// channel is closed when watching stops and nothing is sent after ctx is
// done.
func (p *Poller) Watch(ctx context.Context, fetch AuctionFetcher, auctionID string) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		p.metrics.WatcherStarted()
		defer p.metrics.WatcherStopped()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last := p.Snapshot(ctx, fetch, auctionID)
		if !send(ctx, out, last) || last.Unauthorized {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			next := p.Snapshot(ctx, fetch, auctionID)
			if ctx.Err() != nil {
				return
			}
			if sameState(last, next) {
				continue
			}
			last = next
			if !send(ctx, out, next) || next.Unauthorized {
				return
			}
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- Snapshot, snap Snapshot) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
