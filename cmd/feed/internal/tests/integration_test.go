package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smeshko/tickers/cmd/feed/internal/catalog"
	"github.com/smeshko/tickers/cmd/feed/internal/feed"
	"github.com/smeshko/tickers/cmd/feed/internal/snapshot"
	"github.com/smeshko/tickers/cmd/feed/internal/transport"
	"github.com/smeshko/tickers/cmd/feed/internal/watchlist"
	"github.com/smeshko/tickers/pkg/models"
)

func startEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			for {
				msg, op, err := wsutil.ReadClientData(conn)
				if err != nil || op == ws.OpClose {
					return
				}
				if err := wsutil.WriteServerMessage(conn, op, msg); err != nil {
					return
				}
			}
		}()
	}))
	t.Cleanup(server.Close)
	return server
}

func newRepository(t *testing.T, server *httptest.Server) *feed.Repository {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	channel := transport.NewChannel(url, zap.NewNop())
	return feed.NewRepository(channel, catalog.New(), zap.NewNop(),
		feed.RealClock{}, feed.NewRealRand(), 50*time.Millisecond)
}

func TestEndToEnd_FullRoundTrip(t *testing.T) {
	server := startEchoServer(t)
	repo := newRepository(t, server)

	updates := repo.SubscribeUpdates()
	w := watchlist.New(repo, zap.NewNop())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// Every observed update must have round-tripped through the echo server
	// and stay within ±2% of the previous price.
	prices := make(map[string]float64)
	for batches := 0; batches < 3; batches++ {
		select {
		case batch := <-updates:
			if len(batch) != len(catalog.New().All()) {
				t.Fatalf("Expected a full-roster batch, got %d updates", len(batch))
			}
			for _, u := range batch {
				if prev, ok := prices[u.Symbol]; ok {
					if u.Price < prev*0.98-1e-9 || u.Price > prev*1.02+1e-9 {
						t.Errorf("%s: %f outside ±2%% of %f", u.Symbol, u.Price, prev)
					}
				}
				if u.Price < 0.01 {
					t.Errorf("%s: price %f below floor", u.Symbol, u.Price)
				}
				prices[u.Symbol] = u.Price
			}
		case <-time.After(3 * time.Second):
			t.Fatal("Timed out waiting for round-tripped updates")
		}
	}
}

func TestEndToEnd_WatchlistTracksFeed(t *testing.T) {
	server := startEchoServer(t)
	repo := newRepository(t, server)
	w := watchlist.New(repo, zap.NewNop())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	initial, ok := w.Stock("AAPL")
	if !ok {
		t.Fatal("AAPL missing from snapshot")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		current, _ := w.Stock("AAPL")
		if current.Price != initial.Price {
			if !w.IsConnected() {
				t.Error("Expected connected state while updates flow")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Watchlist never saw a price change")
}

func TestEndToEnd_StopHaltsUpdates(t *testing.T) {
	server := startEchoServer(t)
	repo := newRepository(t, server)

	updates := repo.SubscribeUpdates()
	w := watchlist.New(repo, zap.NewNop())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for the stream to be live, then stop it.
	select {
	case <-updates:
	case <-time.After(3 * time.Second):
		t.Fatal("Stream never produced updates")
	}
	w.Stop()

	// Drain anything already in flight, then expect silence.
	drained := time.After(200 * time.Millisecond)
drain:
	for {
		select {
		case <-updates:
		case <-drained:
			break drain
		}
	}

	select {
	case batch := <-updates:
		t.Errorf("Unexpected batch after stop: %v", batch)
	case <-time.After(300 * time.Millisecond):
	}

	if w.IsStreaming() {
		t.Error("Expected streaming to be off")
	}
}

func TestEndToEnd_SnapshotStoreSeesUpdates(t *testing.T) {
	server := startEchoServer(t)
	repo := newRepository(t, server)
	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := snapshot.NewStore(rdb, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, repo.SubscribeUpdates())

	roster := []models.Stock{models.NewStock("AAPL", "Apple Inc.", 175.0)}
	repo.StartStreaming(roster)
	defer repo.StopStreaming()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if payload, err := mr.Get("stock:AAPL"); err == nil {
			if !strings.Contains(payload, `"symbol":"AAPL"`) {
				t.Errorf("Unexpected snapshot payload: %s", payload)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("Snapshot never written")
}
