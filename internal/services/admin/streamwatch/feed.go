package streamwatch

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"
)

// ServeFeed upgrades the request to a websocket and streams snapshots for
// auctionID until the browser disconnects. The connection's lifetime is the
// watch's lifetime.
func (p *Poller) ServeFeed(w http.ResponseWriter, r *http.Request, fetch AuctionFetcher, auctionID string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auctionID = strings.TrimSpace(auctionID)
	if auctionID == "" || fetch == nil {
		http.NotFound(w, r)
		return
	}
	handler := websocket.Handler(func(conn *websocket.Conn) {
		p.serveConn(conn, fetch, auctionID)
	})
	handler.ServeHTTP(w, r)
}

func (p *Poller) serveConn(conn *websocket.Conn, fetch AuctionFetcher, auctionID string) {
	defer func() {
		_ = conn.Close()
	}()

	parent := context.Background()
	if req := conn.Request(); req != nil {
		parent = req.Context()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// The browser never sends frames; a read returning means it went away.
	go func() {
		defer cancel()
		_, _ = io.Copy(io.Discard, conn)
	}()

	encoder := json.NewEncoder(conn)
	for snap := range p.Watch(ctx, fetch, auctionID) {
		if err := encoder.Encode(snap); err != nil {
			log.Printf("admin: stream feed %s: write: %v", auctionID, err)
			return
		}
	}
}
