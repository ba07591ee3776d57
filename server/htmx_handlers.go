package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/umputun/apodview/pkg/gallery"
	"github.com/umputun/apodview/pkg/modal"
	"github.com/umputun/apodview/pkg/viewer"
)

// FeedErrorMessage is shown in the gallery when the feed can't be loaded
const FeedErrorMessage = "Could not load the APOD feed. Please try again."

// ClientHeader carries the page id, htmx sends it with every request made from the page
const ClientHeader = "X-Apod-Client"

// indexHandler renders the full page with the controls and empty containers.
// Every render gets a new client id, so each page keeps its own gallery and modal.
func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	headers, err := json.Marshal(map[string]string{ClientHeader: uuid.NewString()})
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}

	data := struct {
		LoadingMessage string
		Version        string
		ClientHeaders  string
	}{
		LoadingMessage: s.loadingMsg,
		Version:        s.version,
		ClientHeaders:  string(headers),
	}

	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// galleryHandler loads the feed for the requested range and returns the cards fragment.
// A load overtaken by a newer one of the same page answers 204 so htmx keeps the current gallery.
func (s *Server) galleryHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientFromRequest(r)
	if err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	rng := rangeFromRequest(r)

	res, err := s.viewer.Load(r.Context(), clientID, rng)
	if res.Stale {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	switch {
	case err != nil:
		log.Printf("[WARN] failed to load feed for %+v: %v", rng, err)
		err = s.cards.RenderPlaceholder(&buf, FeedErrorMessage)
	default:
		log.Printf("[DEBUG] load %d of client %q, %d of %d records for %+v", res.Token, clientID, len(res.Records), res.FeedCount, rng)
		err = s.cards.Render(&buf, gallery.BuildCards(res.Token, res.Records))
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render gallery", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// modalHandler opens the overlay for a card of the page's current view
func (s *Server) modalHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientFromRequest(r)
	if err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	view, err := strconv.ParseUint(r.PathValue("view"), 10, 64)
	if err != nil {
		http.Error(w, "invalid view", http.StatusBadRequest)
		return
	}
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	session, err := s.viewer.OpenModal(clientID, view, idx)
	if err != nil {
		if errors.Is(err, viewer.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, "Failed to open record", err)
		return
	}

	var buf bytes.Buffer
	if err := s.dialog.Render(&buf, session); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render record", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// dismissHandler closes the overlay. An empty 200 clears the modal root, it is also sent when
// nothing is open for the page, so a left over overlay can always be dismissed.
// Events the live overlay ignores (older session, other keys) answer 204 and leave it as is.
func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientFromRequest(r)
	if err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseUint(r.FormValue("session"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session", http.StatusBadRequest)
		return
	}

	ev := modal.Event{Session: id, Source: modal.Source(r.FormValue("source")), Key: r.FormValue("key")}
	if s.viewer.Dismiss(clientID, ev) == viewer.DismissIgnored {
		log.Printf("[DEBUG] dismiss ignored, %+v", ev)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// clientFromRequest returns the page id sent by htmx, requests without one share the anonymous client
func clientFromRequest(r *http.Request) (string, error) {
	h := r.Header.Get(ClientHeader)
	if h == "" {
		return "", nil
	}
	id, err := uuid.Parse(h)
	if err != nil {
		return "", fmt.Errorf("parse client id: %w", err)
	}
	return id.String(), nil
}

// rangeFromRequest reads optional start and end dates from the query
func rangeFromRequest(r *http.Request) gallery.Range {
	q := r.URL.Query()
	return gallery.Range{Start: q.Get("start"), End: q.Get("end")}
}

// respondWithError logs the cause and sends a generic message
func (s *Server) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	log.Printf("[ERROR] %s: %v", msg, err)
	http.Error(w, msg, code)
}
