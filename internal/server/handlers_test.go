package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"langworker/internal/catalog"
	"langworker/internal/config"
	"langworker/internal/registry"
)

const smeResource = `{"speller":true,"grammar":true}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	resources := map[string]string{
		"sme.json": smeResource,
		"smj.json": `{"speller":true}`,
	}
	for name, body := range resources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write resource: %v", err)
		}
	}
	registryPath := filepath.Join(dir, "languages.toml")
	registryBody := `
[[languages]]
tag = "sme"
name = "Davvisámegiella"
aliases = ["sme-NO", "sme-SE"]
resource = "sme.json"

[[languages]]
tag = "smj"
name = "Julevsámegiella"
resource = "smj.json"
`
	if err := os.WriteFile(registryPath, []byte(registryBody), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	reg, err := registry.Load(registryPath)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	cat, err := catalog.Build(reg)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	cfg := config.Default()
	cfg.Registry.Path = registryPath

	srv, err := New(&cfg, reg, cat, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	w := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(w, req)
	return w
}

func TestResourceExactAlias(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/resources/sme-NO", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != smeResource {
		t.Fatalf("unexpected body: %q", got)
	}
	if got := w.Header().Get(headerFallback); got != "" {
		t.Fatalf("alias hit must not set fallback header, got %q", got)
	}
	if got := w.Header().Get("Content-Language"); got != "sme-no" {
		t.Fatalf("unexpected Content-Language: %q", got)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected Content-Type: %q", w.Header().Get("Content-Type"))
	}
}

func TestResourceFallbackSetsIndicator(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/resources/sme-FI", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != smeResource {
		t.Fatalf("unexpected body: %q", got)
	}
	if got := w.Header().Get(headerFallback); got != "sme" {
		t.Fatalf("expected fallback header sme, got %q", got)
	}
	if got := w.Header().Get("Content-Language"); got != "sme" {
		t.Fatalf("unexpected Content-Language: %q", got)
	}
}

func TestResourceUnknownTag(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/resources/xyz", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error message")
	}
}

func TestResourceMalformedTag(t *testing.T) {
	srv := newTestServer(t)
	for _, target := range []string{"/resources/", "/resources/sme--no", "/resources/s%20e", "/resources/sme!"} {
		w := do(t, srv, http.MethodGet, target, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("GET %s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestResourceMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodPost, "/resources/sme", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestNegotiatedResource(t *testing.T) {
	srv := newTestServer(t)

	header := http.Header{}
	header.Set("Accept-Language", "xyz;q=1.0, sme-FI;q=0.8, smj;q=0.5")
	w := do(t, srv, http.MethodGet, "/resources", header)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	// xyz is unregistered, so the sme-FI preference wins via fallback.
	if got := w.Header().Get(headerFallback); got != "sme" {
		t.Fatalf("expected fallback to sme, got %q", got)
	}
}

func TestNegotiatedResourceByQueryParameter(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/resources?tag=sme-SE", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get(headerFallback); got != "" {
		t.Fatalf("alias hit must not set fallback header, got %q", got)
	}

	w = do(t, srv, http.MethodGet, "/resources?tag=s!e", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed query tag, got %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/resources?tag=xyz", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown query tag, got %d", w.Code)
	}
}

func TestNegotiatedResourceWithoutHeader(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/resources", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNegotiatedResourceNoMatch(t *testing.T) {
	srv := newTestServer(t)
	header := http.Header{}
	header.Set("Accept-Language", "de-DE, fr;q=0.7")
	w := do(t, srv, http.MethodGet, "/resources", header)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLanguagesListing(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/languages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp LanguagesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(resp.Languages) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(resp.Languages))
	}
	if resp.Languages[0].Tag != "sme" || resp.Languages[1].Tag != "smj" {
		t.Fatalf("listing not sorted by tag: %+v", resp.Languages)
	}
	if len(resp.Languages[0].Aliases) != 2 {
		t.Fatalf("sme aliases missing: %+v", resp.Languages[0])
	}
	if !strings.HasPrefix(resp.Languages[0].ContentType, "application/json") {
		t.Fatalf("unexpected content type: %q", resp.Languages[0].ContentType)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", resp)
	}
}

func TestLandingPage(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h2>Endpoints</h2>") {
		t.Fatal("landing page missing endpoints section")
	}
	if !strings.Contains(body, `<a href="/resources/sme">`) {
		t.Fatal("landing page missing generated language list")
	}
	if !strings.Contains(body, "Davvisámegiella") {
		t.Fatal("landing page missing language name")
	}
}

func TestUnknownPath(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodOptions, "/resources/sme", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestConcurrentRequestsShareSnapshotSafely(t *testing.T) {
	srv := newTestServer(t)
	targets := []string{"/resources/sme", "/resources/sme-NO", "/resources/sme-FI", "/resources/smj", "/resources/xyz", "/languages", "/health"}

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				target := targets[(offset+j)%len(targets)]
				w := do(t, srv, http.MethodGet, target, nil)
				switch target {
				case "/resources/xyz":
					if w.Code != http.StatusNotFound {
						t.Errorf("GET %s: got %d", target, w.Code)
						return
					}
				default:
					if w.Code != http.StatusOK {
						t.Errorf("GET %s: got %d", target, w.Code)
						return
					}
				}
			}
		}(i)
	}
	wg.Wait()
}
