package viewer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/spectate"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

func newTestServer(t *testing.T, dir string) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func writeArchive(t *testing.T, dir, id string, ticks int) {
	t.Helper()
	aw, err := store.NewArchiveWriter(dir, id)
	if err != nil {
		t.Fatalf("NewArchiveWriter: %v", err)
	}
	for i := 1; i <= ticks; i++ {
		if err := aw.Write(store.TurnRow{MatchID: id, Tick: int32(i)}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if _, _, err := aw.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestMatchesAndTurns(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "beta", 2)
	writeArchive(t, dir, "alpha", 3)
	_, srv := newTestServer(t, dir)

	var matches []MatchSummary
	if code := getJSON(t, srv.URL+"/api/matches", &matches); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(matches) != 2 || matches[0].MatchID != "alpha" || matches[0].Turns != 3 || matches[1].LastTick != 2 {
		t.Fatalf("matches=%+v", matches)
	}

	var rows []store.TurnRow
	if code := getJSON(t, srv.URL+"/api/matches/alpha/turns", &rows); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(rows) != 3 || rows[2].Tick != 3 {
		t.Fatalf("rows=%+v", rows)
	}

	if code := getJSON(t, srv.URL+"/api/matches/nope/turns", nil); code != http.StatusNotFound {
		t.Fatalf("missing match status=%d want 404", code)
	}
	if code := getJSON(t, srv.URL+"/api/matches/alpha", nil); code != http.StatusNotFound {
		t.Fatalf("bad path status=%d want 404", code)
	}
}

func TestMatches_MissingDir(t *testing.T) {
	_, srv := newTestServer(t, t.TempDir()+"/absent")
	var matches []MatchSummary
	if code := getJSON(t, srv.URL+"/api/matches", &matches); code != http.StatusOK || len(matches) != 0 {
		t.Fatalf("status=%d matches=%v", code, matches)
	}
}

func TestRelay(t *testing.T) {
	s, srv := newTestServer(t, t.TempDir())
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	watch, _, err := websocket.DefaultDialer.Dial(base+"/ws/watch", nil)
	if err != nil {
		t.Fatalf("dial watch: %v", err)
	}
	defer watch.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Watchers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watcher never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	pub, err := spectate.Dial(context.Background(), spectate.Config{URL: base + "/ws/publish", WriteTimeout: time.Second})
	if err != nil {
		t.Fatalf("dial publish: %v", err)
	}
	if err := pub.Publish(store.TurnRow{MatchID: "live", Tick: 9}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_ = watch.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env spectate.Envelope
	if err := watch.ReadJSON(&env); err != nil {
		t.Fatalf("watcher read: %v", err)
	}
	if env.Type != spectate.TypeTurn || env.Turn == nil || env.Turn.Tick != 9 {
		t.Fatalf("watcher got %+v", env)
	}

	pub.Close()
	if err := watch.ReadJSON(&env); err != nil || env.Type != spectate.TypeEnd {
		t.Fatalf("end message: %+v err=%v", env, err)
	}
}
