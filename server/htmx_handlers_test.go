package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/apodview/pkg/domain"
	"github.com/umputun/apodview/pkg/gallery"
	"github.com/umputun/apodview/pkg/modal"
	"github.com/umputun/apodview/pkg/viewer"
	"github.com/umputun/apodview/server/mocks"
)

const testClient = "6f1c2a9e-3b7d-4f58-9a0e-2c4d8b1e7f30"

func mockServer(t *testing.T, v *mocks.ViewerMock) *Server {
	t.Helper()
	srv, err := New(testConfig(), v, Params{Version: "test", LoadingMessage: "hold on"})
	require.NoError(t, err)
	return srv
}

func clientRequest(method, target string, body *strings.Reader) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set(ClientHeader, testClient)
	return req
}

func TestServer_galleryHandler(t *testing.T) {
	t.Run("passes client and range, renders cards", func(t *testing.T) {
		v := &mocks.ViewerMock{
			LoadFunc: func(ctx context.Context, clientID string, rng gallery.Range) (viewer.LoadResult, error) {
				return viewer.LoadResult{Token: 3, FeedCount: 2, Records: []domain.Record{
					{Title: "b", Date: "2024-01-02", MediaType: domain.MediaImage, URL: "b.jpg"},
				}}, nil
			},
		}
		srv := mockServer(t, v)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, clientRequest(http.MethodGet, "/gallery?start=2024-01-02&end=2024-01-05", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `data-date="2024-01-02"`)
		assert.Contains(t, rec.Body.String(), `hx-get="/modal/3/0"`, "card addresses the view it came from")
		require.Len(t, v.LoadCalls(), 1)
		assert.Equal(t, testClient, v.LoadCalls()[0].ClientID)
		assert.Equal(t, gallery.Range{Start: "2024-01-02", End: "2024-01-05"}, v.LoadCalls()[0].Rng)
	})

	t.Run("stale load answers no content", func(t *testing.T) {
		v := &mocks.ViewerMock{
			LoadFunc: func(ctx context.Context, clientID string, rng gallery.Range) (viewer.LoadResult, error) {
				return viewer.LoadResult{Token: 1, Stale: true, Records: []domain.Record{{Title: "old", URL: "x"}}}, nil
			},
		}
		rec := httptest.NewRecorder()
		mockServer(t, v).Handler().ServeHTTP(rec, clientRequest(http.MethodGet, "/gallery", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("stale failure answers no content", func(t *testing.T) {
		v := &mocks.ViewerMock{
			LoadFunc: func(ctx context.Context, clientID string, rng gallery.Range) (viewer.LoadResult, error) {
				return viewer.LoadResult{Token: 1, Stale: true}, errors.New("late")
			},
		}
		rec := httptest.NewRecorder()
		mockServer(t, v).Handler().ServeHTTP(rec, clientRequest(http.MethodGet, "/gallery", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("failure renders error placeholder", func(t *testing.T) {
		v := &mocks.ViewerMock{
			LoadFunc: func(ctx context.Context, clientID string, rng gallery.Range) (viewer.LoadResult, error) {
				return viewer.LoadResult{Token: 1}, errors.New("boom")
			},
		}
		rec := httptest.NewRecorder()
		mockServer(t, v).Handler().ServeHTTP(rec, clientRequest(http.MethodGet, "/gallery", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `<div class="placeholder" role="status">`+FeedErrorMessage+`</div>`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("bad client header", func(t *testing.T) {
		v := &mocks.ViewerMock{}
		req := httptest.NewRequest(http.MethodGet, "/gallery", http.NoBody)
		req.Header.Set(ClientHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		mockServer(t, v).Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, v.LoadCalls())
	})
}

func TestServer_indexHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	mockServer(t, &mocks.ViewerMock{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hold on")
	assert.Contains(t, rec.Body.String(), `id="modal-root"`)
	assert.Contains(t, rec.Body.String(), `hx-headers="{&#34;`+ClientHeader+`&#34;:`)
}

func TestServer_modalHandler(t *testing.T) {
	session := modal.NewController(nil).Open(domain.Record{Title: "Orion", Date: "2024-01-01",
		MediaType: domain.MediaImage, URL: "a.jpg"})

	v := &mocks.ViewerMock{
		OpenModalFunc: func(clientID string, view uint64, idx int) (modal.Session, error) {
			switch {
			case view == 2 && idx == 0:
				return session, nil
			case idx == 5:
				return modal.Session{}, errors.New("unexpected")
			default:
				return modal.Session{}, viewer.ErrNotFound
			}
		},
	}
	srv := mockServer(t, v)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "open", path: "/modal/2/0", wantCode: http.StatusOK, wantBody: `class="modal-root"`},
		{name: "other view", path: "/modal/1/0", wantCode: http.StatusNotFound, wantBody: "record not found"},
		{name: "not found", path: "/modal/2/3", wantCode: http.StatusNotFound, wantBody: "record not found"},
		{name: "negative", path: "/modal/2/-1", wantCode: http.StatusNotFound},
		{name: "viewer failure", path: "/modal/2/5", wantCode: http.StatusInternalServerError, wantBody: "Failed to open record"},
		{name: "index not a number", path: "/modal/2/abc", wantCode: http.StatusBadRequest, wantBody: "invalid index"},
		{name: "view not a number", path: "/modal/x/0", wantCode: http.StatusBadRequest, wantBody: "invalid view"},
		{name: "no view", path: "/modal/0", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, clientRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
	calls := v.OpenModalCalls()
	require.Len(t, calls, 5, "bad path never reaches the viewer")
	assert.Equal(t, testClient, calls[0].ClientID)
	assert.Equal(t, uint64(2), calls[0].View)
}

func TestServer_dismissHandler(t *testing.T) {
	v := &mocks.ViewerMock{
		DismissFunc: func(clientID string, ev modal.Event) viewer.Dismissal {
			switch ev.Session {
			case 7:
				return viewer.DismissClosed
			case 8:
				return viewer.DismissOrphan
			default:
				return viewer.DismissIgnored
			}
		},
	}
	srv := mockServer(t, v)

	post := func(vals url.Values) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, clientRequest(http.MethodPost, "/modal/dismiss", strings.NewReader(vals.Encode())))
		return rec
	}

	rec := post(url.Values{"session": {"7"}, "source": {"backdrop"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = post(url.Values{"session": {"8"}, "source": {"close"}})
	assert.Equal(t, http.StatusOK, rec.Code, "left over overlay is cleared")
	assert.Empty(t, rec.Body.String())

	rec = post(url.Values{"session": {"6"}, "source": {"key"}, "key": {"Enter"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = post(url.Values{"session": {"x"}, "source": {"close"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(url.Values{"source": {"close"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	calls := v.DismissCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, testClient, calls[2].ClientID)
	assert.Equal(t, modal.Event{Session: 6, Source: modal.SourceKey, Key: "Enter"}, calls[2].Ev)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, clientRequest(http.MethodGet, "/modal/dismiss", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code, "dismiss is post only")
}

func TestClientFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	id, err := clientFromRequest(req)
	require.NoError(t, err)
	assert.Empty(t, id, "no header means the anonymous client")

	req.Header.Set(ClientHeader, strings.ToUpper(testClient))
	id, err = clientFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, testClient, id, "normalized")

	req.Header.Set(ClientHeader, "../../etc")
	_, err = clientFromRequest(req)
	require.Error(t, err)
}

func TestServer_GalleryEndToEnd(t *testing.T) {
	ts := setupServer(t, staticFeed(testFeed))
	p := openPage(t, ts.URL)

	code, body := p.get("/gallery")
	require.Equal(t, http.StatusOK, code)
	doc := parseFragment(t, body)

	assert.Empty(t, findAll(doc, byTag("script")), "titles are escaped")
	cards := findAll(doc, byClass("gallery-item"))
	require.Len(t, cards, 3, "record without media is dropped")

	dates := make([]string, 0, len(cards))
	for _, c := range cards {
		dates = append(dates, attr(c, "data-date"))
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, dates)
	assert.Equal(t, []string{"/modal/1/0", "/modal/1/1", "/modal/1/2"},
		[]string{attr(cards[0], "hx-get"), attr(cards[1], "hx-get"), attr(cards[2], "hx-get")})
	assert.Contains(t, textOf(cards[0]), "<script>alert(1)</script>")
	assert.Contains(t, textOf(cards[1]), "▶ Video")

	code, body = p.get("/gallery?start=2024-01-02&end=2024-01-02")
	require.Equal(t, http.StatusOK, code)
	cards = findAll(parseFragment(t, body), byClass("gallery-item"))
	require.Len(t, cards, 1)
	assert.Equal(t, "2024-01-02", attr(cards[0], "data-date"))
	assert.Equal(t, "/modal/2/0", attr(cards[0], "hx-get"))

	code, _ = p.get("/modal/1/0")
	assert.Equal(t, http.StatusNotFound, code, "cards of a replaced view don't open")
}

func TestServer_GalleryPlaceholders(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		ts := setupServer(t, staticFeed(testFeed))
		code, body := openPage(t, ts.URL).get("/gallery?start=2030-01-01")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `<div class="placeholder" role="status">No results found. Please try again later.</div>`)
	})

	t.Run("malformed feed", func(t *testing.T) {
		ts := setupServer(t, staticFeed(`{"results": "nope"}`))
		code, body := openPage(t, ts.URL).get("/gallery")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "No results found.")
	})

	t.Run("feed error", func(t *testing.T) {
		ts := setupServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		code, body := openPage(t, ts.URL).get("/gallery")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, FeedErrorMessage)
		assert.NotContains(t, body, "500", "cause isn't shown to the user")
	})
}

func TestServer_ModalLifecycle(t *testing.T) {
	ts := setupServer(t, staticFeed(testFeed))
	p := openPage(t, ts.URL)

	code, _ := p.get("/modal/1/0")
	assert.Equal(t, http.StatusNotFound, code, "nothing loaded yet")

	code, body := p.get("/gallery")
	require.Equal(t, http.StatusOK, code)
	cards := findAll(parseFragment(t, body), byClass("gallery-item"))
	require.Len(t, cards, 3)

	code, body = p.get(attr(cards[1], "hx-get"))
	require.Equal(t, http.StatusOK, code)
	doc := parseFragment(t, body)
	roots := findAll(doc, byClass("modal-root"))
	require.Len(t, roots, 1)
	assert.Equal(t, "dialog", attr(roots[0], "role"))
	frames := findAll(doc, byTag("iframe"))
	require.Len(t, frames, 1)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/XYZ789?rel=0&modestbranding=1&playsinline=1", attr(frames[0], "src"))
	first := attr(roots[0], "data-session")

	// opening another record replaces the first session
	code, body = p.get(attr(cards[2], "hx-get"))
	require.Equal(t, http.StatusOK, code)
	roots = findAll(parseFragment(t, body), byClass("modal-root"))
	require.Len(t, roots, 1)
	second := attr(roots[0], "data-session")
	assert.NotEqual(t, first, second)

	code, _ = p.post("/modal/dismiss", url.Values{"session": {first}, "source": {"close"}})
	assert.Equal(t, http.StatusNoContent, code, "older session doesn't close the live overlay")

	code, _ = p.post("/modal/dismiss", url.Values{"session": {second}, "source": {"key"}, "key": {"Enter"}})
	assert.Equal(t, http.StatusNoContent, code, "non-escape key ignored")

	code, body = p.post("/modal/dismiss", url.Values{"session": {second}, "source": {"key"}, "key": {"Escape"}})
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body)

	code, body = p.post("/modal/dismiss", url.Values{"session": {second}, "source": {"backdrop"}})
	assert.Equal(t, http.StatusOK, code, "nothing open, repeated dismissal still clears the root")
	assert.Empty(t, body)
}

func TestServer_PagesKeepOwnState(t *testing.T) {
	ts := setupServer(t, staticFeed(testFeed))
	tabA, tabB := openPage(t, ts.URL), openPage(t, ts.URL)

	cardOf := func(p *page, query string) string {
		t.Helper()
		code, body := p.get("/gallery?" + query)
		require.Equal(t, http.StatusOK, code, "load of one page is never stale because of another")
		cards := findAll(parseFragment(t, body), byClass("gallery-item"))
		require.Len(t, cards, 1)
		return attr(cards[0], "hx-get")
	}
	openTitle := func(p *page, path string) (title, session string) {
		t.Helper()
		code, body := p.get(path)
		require.Equal(t, http.StatusOK, code)
		doc := parseFragment(t, body)
		titles := findAll(doc, byClass("modal-title"))
		require.Len(t, titles, 1)
		roots := findAll(doc, byClass("modal-root"))
		require.Len(t, roots, 1)
		return textOf(titles[0]), attr(roots[0], "data-session")
	}

	cardA := cardOf(tabA, "start=2024-01-01&end=2024-01-01")
	cardB := cardOf(tabB, "start=2024-01-02&end=2024-01-02")

	titleA, sessionA := openTitle(tabA, cardA)
	assert.Equal(t, "Orion", titleA, "a's card opens a's record")
	titleB, sessionB := openTitle(tabB, cardB)
	assert.Equal(t, "Launch", titleB)

	code, body := tabA.post("/modal/dismiss", url.Values{"session": {sessionA}, "source": {"close"}})
	assert.Equal(t, http.StatusOK, code, "b's modal doesn't take over a's overlay")
	assert.Empty(t, body)

	code, body = tabB.get("/api/v1/status")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"modal":"open"`, "closing a leaves b open")

	code, _ = tabB.post("/modal/dismiss", url.Values{"session": {sessionB}, "source": {"key"}, "key": {"Escape"}})
	assert.Equal(t, http.StatusOK, code)

	cardA = cardOf(tabA, "start=2024-01-03")
	titleA, _ = openTitle(tabA, cardA)
	assert.Equal(t, "<script>alert(1)</script>", titleA)
}
