package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/molview/pkg/buildinfo"
	"github.com/matzehuels/molview/pkg/cache"
	apperr "github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/observability"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	reg := prometheus.NewRegistry()
	srv := New(Config{
		Runner:   pipeline.NewRunner(fc, nil, logger),
		Store:    storage.NewMemoryStore(),
		Logger:   logger,
		Gatherer: reg,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, reg
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status = %d, want %d (body %s)",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	wantStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestVersion(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/version", "")
	wantStatus(t, resp, http.StatusOK)
	if got := decode[buildinfo.Info](t, resp); got != buildinfo.Get() {
		t.Errorf("version = %+v, want %+v", got, buildinfo.Get())
	}
}

func TestLayout(t *testing.T) {
	ts, _ := newTestServer(t)
	url := ts.URL + "/api/v1/layout?smiles=c1ccccc1"

	resp := do(t, http.MethodGet, url, "")
	wantStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(cacheHeader); got != "miss" {
		t.Errorf("first request %s = %q, want miss", cacheHeader, got)
	}
	got := decode[structureResponse](t, resp)
	if len(got.Atoms) == 0 {
		t.Fatal("layout has no atoms")
	}
	if got.Topology.Atoms != len(got.Atoms) {
		t.Errorf("topology atoms = %d, want %d", got.Topology.Atoms, len(got.Atoms))
	}
	if got.Source != "c1ccccc1" {
		t.Errorf("source = %q", got.Source)
	}

	resp = do(t, http.MethodGet, url, "")
	wantStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(cacheHeader); got != "hit" {
		t.Errorf("second request %s = %q, want hit", cacheHeader, got)
	}

	resp = do(t, http.MethodGet, url+"&refresh=true", "")
	wantStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(cacheHeader); got != "miss" {
		t.Errorf("refresh %s = %q, want miss", cacheHeader, got)
	}
}

func TestLayoutAcceptsAnyCharacters(t *testing.T) {
	ts, _ := newTestServer(t)
	for query, atoms := range map[string]int{
		"smiles=CCO%0A":    3,
		"smiles=C%09C":     2,
		"smiles=%21%21%21": 4,
	} {
		resp := do(t, http.MethodGet, ts.URL+"/api/v1/layout?"+query, "")
		wantStatus(t, resp, http.StatusOK)
		if got := decode[structureResponse](t, resp); len(got.Atoms) != atoms {
			t.Errorf("%s: atoms = %d, want %d", query, len(got.Atoms), atoms)
		}
	}
}

func TestLayoutParsesAsDocument(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/layout?smiles=CCO", "")
	wantStatus(t, resp, http.StatusOK)
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	st, err := molecule.UnmarshalStructure(data)
	if err != nil {
		t.Fatalf("UnmarshalStructure: %v", err)
	}
	if len(st.Atoms) == 0 {
		t.Error("decoded structure has no atoms")
	}
}

func TestLayoutErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name  string
		query string
		code  int
		want  apperr.Code
	}{
		{"missing source", "", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"bad refresh", "?smiles=C&refresh=maybe", http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"unknown reference", "?reference=unobtainium", http.StatusNotFound, apperr.ErrCodeReferenceNotFound},
		{"oversized smiles", "?smiles=" + strings.Repeat("C", apperr.MaxSourceLength+1), http.StatusBadRequest, apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/api/v1/layout"+tt.query, "")
			wantStatus(t, resp, tt.code)
			got := decode[errorResponse](t, resp)
			if got.Error.Code != tt.want {
				t.Errorf("code = %q, want %q", got.Error.Code, tt.want)
			}
			if got.Error.RequestID == "" {
				t.Error("missing request id")
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{"smiles=c1ccccc1", "image/svg+xml", "<svg"},
		{"smiles=CCO&format=json&legend", "application/json", "{"},
		{"reference=caffeine&format=svg&angle=30&tilt=0.2", "image/svg+xml", "<svg"},
		{"smiles=CCO&type=nodelink&format=dot", pipeline.ContentTypes[pipeline.FormatDOT], "graph"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/api/v1/render?"+tt.query, "")
			wantStatus(t, resp, http.StatusOK)
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if resp.Header.Get("X-Structure-Hash") == "" {
				t.Error("missing X-Structure-Hash")
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.prefix) {
				t.Errorf("body does not contain %q: %.80s", tt.prefix, body)
			}
		})
	}
}

func TestRenderReferenceCacheHeader(t *testing.T) {
	ts, _ := newTestServer(t)
	url := ts.URL + "/api/v1/render?reference=aspirin&format=svg"

	resp := do(t, http.MethodGet, url, "")
	wantStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(cacheHeader); got != "miss" {
		t.Errorf("first render %s = %q, want miss", cacheHeader, got)
	}
	resp = do(t, http.MethodGet, url, "")
	wantStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get(cacheHeader); got != "hit" {
		t.Errorf("cached render %s = %q, want hit", cacheHeader, got)
	}
}

func TestRenderInvalidParams(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, q := range []string{
		"smiles=C&format=bmp",
		"smiles=C&width=wide",
		"smiles=C&width=-3",
		"smiles=C&angle=left",
		"smiles=C&type=cartoon",
	} {
		resp := do(t, http.MethodGet, ts.URL+"/api/v1/render?"+q, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestReferenceList(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/reference", "")
	wantStatus(t, resp, http.StatusOK)
	got := decode[[]referenceSummary](t, resp)
	if len(got) == 0 {
		t.Fatal("no reference molecules")
	}
	found := false
	for _, m := range got {
		if m.Slug == "caffeine" {
			found = true
			if m.Atoms == 0 || m.Formula == "" {
				t.Errorf("caffeine summary incomplete: %+v", m)
			}
		}
	}
	if !found {
		t.Error("caffeine missing from reference list")
	}
}

func TestReferenceGet(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/v1/reference/Caffeine", "")
	wantStatus(t, resp, http.StatusOK)
	got := decode[structureResponse](t, resp)
	if got.Name != "Caffeine" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Formula == "" {
		t.Error("missing formula")
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/reference/unobtainium", "")
	wantStatus(t, resp, http.StatusNotFound)
	if e := decode[errorResponse](t, resp); e.Error.Code != apperr.ErrCodeReferenceNotFound {
		t.Errorf("code = %q", e.Error.Code)
	}
}

func TestStructuresCRUD(t *testing.T) {
	ts, _ := newTestServer(t)
	base := ts.URL + "/api/v1/structures"

	resp := do(t, http.MethodPost, base, `{"name":"ethanol","smiles":"CCO"}`)
	wantStatus(t, resp, http.StatusCreated)
	created := decode[storage.Record](t, resp)
	if created.ID == "" || created.Name != "ethanol" || created.Source != "CCO" {
		t.Fatalf("created = %+v", created)
	}
	if loc := resp.Header.Get("Location"); loc != "/api/v1/structures/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	resp = do(t, http.MethodPost, base, `{"smiles":"c1ccccc1"}`)
	wantStatus(t, resp, http.StatusCreated)
	if unnamed := decode[storage.Record](t, resp); unnamed.Name != "c1ccccc1" {
		t.Errorf("unnamed record name = %q, want the smiles string", unnamed.Name)
	}

	resp = do(t, http.MethodGet, base, "")
	wantStatus(t, resp, http.StatusOK)
	if list := decode[[]storage.Record](t, resp); len(list) != 2 {
		t.Errorf("list len = %d, want 2", len(list))
	}

	resp = do(t, http.MethodGet, base+"?limit=1", "")
	wantStatus(t, resp, http.StatusOK)
	if list := decode[[]storage.Record](t, resp); len(list) != 1 {
		t.Errorf("limited list len = %d, want 1", len(list))
	}

	resp = do(t, http.MethodGet, base+"/"+created.ID, "")
	wantStatus(t, resp, http.StatusOK)
	got := decode[storage.Record](t, resp)
	st, err := got.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(st.Atoms) != len(created.Structure.Atoms) {
		t.Errorf("atoms = %d, want %d", len(st.Atoms), len(created.Structure.Atoms))
	}

	resp = do(t, http.MethodDelete, base+"/"+created.ID, "")
	wantStatus(t, resp, http.StatusNoContent)

	resp = do(t, http.MethodGet, base+"/"+created.ID, "")
	wantStatus(t, resp, http.StatusNotFound)
	if e := decode[errorResponse](t, resp); e.Error.Code != apperr.ErrCodeNotFound {
		t.Errorf("code = %q", e.Error.Code)
	}

	resp = do(t, http.MethodDelete, base+"/"+created.ID, "")
	wantStatus(t, resp, http.StatusNotFound)
}

func TestStructuresInvalid(t *testing.T) {
	ts, _ := newTestServer(t)
	base := ts.URL + "/api/v1/structures"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed body", http.MethodPost, "", `{"smiles":`},
		{"unknown field", http.MethodPost, "", `{"smiles":"C","colour":"red"}`},
		{"bad name", http.MethodPost, "", `{"name":"bad\u0007name","smiles":"C"}`},
		{"oversized smiles", http.MethodPost, "", `{"smiles":"` + strings.Repeat("C", apperr.MaxSourceLength+1) + `"}`},
		{"bad limit", http.MethodGet, "?limit=many", ""},
		{"bad id get", http.MethodGet, "/not-a-uuid", ""},
		{"bad id delete", http.MethodDelete, "/not-a-uuid", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, base+tt.path, tt.body)
			wantStatus(t, resp, http.StatusBadRequest)
			if e := decode[errorResponse](t, resp); e.Error.Code == "" {
				t.Error("missing error code")
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v2/everything", "")
	wantStatus(t, resp, http.StatusNotFound)
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if e := decode[errorResponse](t, resp); e.Error.Code != apperr.ErrCodeNotFound {
		t.Errorf("code = %q", e.Error.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, reg := newTestServer(t)
	m := observability.NewMetrics(reg)
	observability.SetHTTPHooks(m)
	observability.SetPipelineHooks(m)
	t.Cleanup(observability.Reset)

	do(t, http.MethodGet, ts.URL+"/healthz", "")
	do(t, http.MethodGet, ts.URL+"/api/v1/layout?smiles=CC", "")
	do(t, http.MethodGet, ts.URL+"/nowhere", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	wantStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	for _, want := range []string{
		`molview_http_requests_total{code="200",method="GET",route="/healthz"} 1`,
		`molview_http_requests_total{code="200",method="GET",route="/api/v1/layout"} 1`,
		`molview_http_requests_total{code="404",method="GET",route="unmatched"} 1`,
		`molview_layouts_total{result="fresh"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	srv := New(Config{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
