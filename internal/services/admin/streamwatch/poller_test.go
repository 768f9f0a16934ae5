package streamwatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
)

// scriptedFetcher replays auctions in order, repeating the last one.
type scriptedFetcher struct {
	mu     sync.Mutex
	script []marketapi.Auction
	errs   []error
	calls  int
}

func (f *scriptedFetcher) GetAuction(_ context.Context, id string) (marketapi.Auction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return marketapi.Auction{}, f.errs[idx]
	}
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	auction := f.script[idx]
	auction.ID = marketapi.ID(id)
	return auction, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fixedPoller(interval time.Duration) *Poller {
	p := NewPoller(interval, nil)
	p.now = func() time.Time { return time.Date(2025, time.March, 1, 10, 1, 30, 0, time.UTC) }
	return p
}

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed early")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestWatchEmitsInitialAndChangesOnly(t *testing.T) {
	t.Parallel()

	offAir := marketapi.Auction{RawStatus: "scheduled"}
	onAir := marketapi.Auction{RawStatus: "scheduled", IsStreaming: true, StreamStartedAt: "2025-03-01 10:00:00"}
	fetch := &scriptedFetcher{script: []marketapi.Auction{offAir, offAir, offAir, onAir}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := fixedPoller(5*time.Millisecond).Watch(ctx, fetch, "8")

	first := receive(t, ch)
	if first.OnAir || first.Status != marketapi.AuctionScheduled || first.AuctionID != "8" {
		t.Fatalf("first = %+v", first)
	}
	second := receive(t, ch)
	if !second.OnAir || second.Status != marketapi.AuctionLive {
		t.Fatalf("second = %+v", second)
	}
	if second.Elapsed != "01:30" || second.ElapsedSeconds != 90 {
		t.Fatalf("elapsed = %q (%d)", second.Elapsed, second.ElapsedSeconds)
	}
	if fetch.callCount() < 4 {
		t.Fatalf("calls = %d, want unchanged polls to be skipped", fetch.callCount())
	}

	cancel()
	for range ch {
	}
	stopped := fetch.callCount()
	time.Sleep(30 * time.Millisecond)
	if fetch.callCount() != stopped {
		t.Fatal("poller kept fetching after cancel")
	}
}

func TestWatchStopsOnUnauthorized(t *testing.T) {
	t.Parallel()

	fetch := &scriptedFetcher{
		script: []marketapi.Auction{{}},
		errs:   []error{apperrors.Upstream(http.StatusUnauthorized, "Unauthenticated.")},
	}
	ch := fixedPoller(5*time.Millisecond).Watch(context.Background(), fetch, "8")
	snap := receive(t, ch)
	if !snap.Unauthorized || snap.Error != "Unauthenticated." {
		t.Fatalf("snapshot = %+v", snap)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to close after unauthorized")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed")
	}
}

func TestWatchCancelledBeforeFirstSend(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetch := &scriptedFetcher{script: []marketapi.Auction{{}}}
	for snap := range fixedPoller(time.Millisecond).Watch(ctx, fetch, "1") {
		t.Fatalf("received %+v after cancel", snap)
	}
}

func TestWatchTracksWatcherGauge(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	p := NewPoller(5*time.Millisecond, reg)
	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Watch(ctx, &scriptedFetcher{script: []marketapi.Auction{{}}}, "1")
	receive(t, ch)
	cancel()
	for range ch {
	}
	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if strings.HasSuffix(family.GetName(), "stream_watchers") {
			if got := family.GetMetric()[0].GetGauge().GetValue(); got != 0 {
				t.Fatalf("watchers = %v, want 0 after stop", got)
			}
			return
		}
	}
	t.Fatal("stream_watchers gauge not registered")
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]string{
		0:                              "00:00",
		-time.Second:                   "00:00",
		59 * time.Second:               "00:59",
		61*time.Minute + 5*time.Second: "61:05",
	}
	for in, want := range cases {
		if got := FormatElapsed(in); got != want {
			t.Fatalf("FormatElapsed(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestServeFeedStreamsOverWebsocket(t *testing.T) {
	t.Parallel()

	fetch := &scriptedFetcher{script: []marketapi.Auction{{IsStreaming: true, StreamStartedAt: "2025-03-01 10:00:00"}}}
	p := fixedPoller(10 * time.Millisecond)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.ServeFeed(w, r, fetch, "42")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/auctions/42/stream/ws"
	conn, err := websocket.Dial(wsURL, "", server.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}

	var snap Snapshot
	if err := json.NewDecoder(conn).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.AuctionID != "42" || !snap.OnAir || snap.Elapsed != "01:30" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestServeFeedRejectsNonGet(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auctions/1/stream/ws", nil)
	fixedPoller(time.Second).ServeFeed(rec, req, &scriptedFetcher{}, "1")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
