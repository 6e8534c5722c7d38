// Package viewer serves match archives over HTTP and relays live spectator
// feeds from running agents to any number of browser watchers.
package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/spectate"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

// Server holds shared state for HTTP handlers.
type Server struct {
	dir string
	hub *Hub
	log *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(archiveDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dir:      archiveDir,
		hub:      NewHub(logger),
		log:      logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// RegisterRoutes sets up all routes on the given mux.
//
//	GET /api/matches               archive summaries
//	GET /api/matches/{id}/turns    every turn of one archive
//	GET /ws/publish                agent side of the live feed
//	GET /ws/watch                  watcher side of the live feed
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/matches", s.handleMatches)
	mux.HandleFunc("/api/matches/", s.handleTurns)
	mux.HandleFunc("/ws/publish", s.handlePublish)
	mux.HandleFunc("/ws/watch", s.handleWatch)
}

// MatchSummary describes one archive on disk.
type MatchSummary struct {
	MatchID  string `json:"match_id"`
	Turns    int    `json:"turns"`
	LastTick int32  `json:"last_tick"`
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	matches, err := s.listMatches()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, matches)
}

func (s *Server) listMatches() ([]MatchSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []MatchSummary{}, nil
		}
		return nil, err
	}
	out := make([]MatchSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		rows, err := store.ReadArchive(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.log.Debug("skipping archive", "file", e.Name(), "error", err)
			continue
		}
		sum := MatchSummary{MatchID: strings.TrimSuffix(e.Name(), ".parquet"), Turns: len(rows)}
		if len(rows) > 0 {
			sum.LastTick = rows[len(rows)-1].Tick
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	// /api/matches/{id}/turns
	rest := strings.TrimPrefix(r.URL.Path, "/api/matches/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "turns" {
		http.NotFound(w, r)
		return
	}
	id, err := url.PathUnescape(parts[0])
	if err != nil || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		http.Error(w, "bad match id", http.StatusBadRequest)
		return
	}
	rows, err := store.ReadArchive(filepath.Join(s.dir, id+".parquet"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

// handlePublish reads envelopes from one agent until it closes the match.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("publish upgrade", "error", err)
		return
	}
	defer c.Close()

	for {
		var env spectate.Envelope
		if err := c.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("publisher gone", "error", err)
			}
			return
		}
		s.hub.Broadcast(env)
		if env.Type == spectate.TypeEnd {
			return
		}
	}
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("watch upgrade", "error", err)
		return
	}
	s.hub.Serve(c)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		return false
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
	}
}
