package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// readinessTimeout bounds all readiness probes together
const readinessTimeout = 5 * time.Second

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady runs every readiness checker concurrently and reports each result.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]string, len(s.deps.Checkers))

	// A plain Group so one failure does not cancel the other probes
	var g errgroup.Group
	for _, c := range s.deps.Checkers {
		g.Go(func() error {
			status := "ok"
			err := c.Check(ctx)
			if err != nil {
				log.Printf("[server] readiness check %s failed: %v", c.Name, err)
				status = "unavailable"
			}
			mu.Lock()
			checks[c.Name] = status
			mu.Unlock()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": checks})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "ok", "checks": checks})
}
