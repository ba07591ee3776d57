package server

import (
	"log"
	"net/http"
)

// rssHandler serves the filtered, sorted feed as RSS, supports the same start/end query as the gallery
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	rng := rangeFromRequest(r)

	records, err := s.viewer.Snapshot(r.Context(), rng)
	if err != nil {
		log.Printf("[WARN] failed to load feed for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusBadGateway)
		return
	}

	rss, err := s.generator.GenerateRSS(records, rng)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
