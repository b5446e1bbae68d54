package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/molview/pkg/buildinfo"
	apperr "github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/reference"
	"github.com/matzehuels/molview/pkg/storage"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// cacheHeader reports whether a response came from the cache.
const cacheHeader = "X-Cache"

// structureResponse is the structure wire format with display extras. It
// still parses with molecule.UnmarshalStructure.
type structureResponse struct {
	molecule.Document
	Topology    molecule.Topology `json:"topology"`
	Formula     string            `json:"formula,omitempty"`
	Description string            `json:"description,omitempty"`
}

func newStructureResponse(st molecule.Structure) structureResponse {
	return structureResponse{
		Document: molecule.ToDocument(st),
		Topology: molecule.Analyze(st),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Layout & Render
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := sourceOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, newStructureResponse(st))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := renderOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	setCacheHeader(w, result.CacheInfo.Cached())
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Structure-Hash", result.StructureHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// sourceOptions reads smiles, reference and refresh.
func sourceOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:    q.Get("smiles"),
		Reference: q.Get("reference"),
	}
	if opts.Source == "" && opts.Reference == "" && !q.Has("smiles") {
		return opts, errInvalid("query parameter smiles or reference is required")
	}
	if err := apperr.ValidateSource(opts.Source); err != nil {
		return opts, err
	}
	refresh, err := queryBool(q, "refresh")
	if err != nil {
		return opts, err
	}
	opts.Refresh = refresh
	return opts, nil
}

// renderOptions reads the render query parameters. Exactly one format is
// rendered per request.
func renderOptions(q url.Values) (pipeline.Options, error) {
	opts, err := sourceOptions(q)
	if err != nil {
		return opts, err
	}

	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	opts.VizType = q.Get("type")
	opts.Title = q.Get("title")

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"frames", &opts.Frames},
	} {
		if *p.dst, err = queryInt(q, p.name); err != nil {
			return opts, err
		}
	}
	if opts.Angle, err = queryFloat(q, "angle"); err != nil {
		return opts, err
	}
	if q.Has("tilt") {
		tilt, err := queryFloat(q, "tilt")
		if err != nil {
			return opts, err
		}
		opts.Tilt = &tilt
	}
	if opts.Legend, err = queryBool(q, "legend"); err != nil {
		return opts, err
	}
	if opts.Detailed, err = queryBool(q, "detailed"); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryInt(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errInvalid("%s must be a non-negative integer, got %q", name, v)
	}
	return n, nil
}

func queryFloat(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errInvalid("%s must be a number, got %q", name, v)
	}
	return f, nil
}

// queryBool accepts strconv booleans; a bare "?legend" counts as true.
func queryBool(q url.Values, name string) (bool, error) {
	if !q.Has(name) {
		return false, nil
	}
	v := q.Get(name)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errInvalid("%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
}

// =============================================================================
// Reference Molecules
// =============================================================================

type referenceSummary struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
	Atoms       int    `json:"atoms"`
	Bonds       int    `json:"bonds"`
}

func (s *Server) handleReferenceList(w http.ResponseWriter, r *http.Request) {
	mols := reference.All()
	out := make([]referenceSummary, len(mols))
	for i, m := range mols {
		out[i] = referenceSummary{
			Name:        m.Name,
			Slug:        m.Slug(),
			Formula:     m.Formula,
			Description: m.Description,
			Atoms:       len(m.Atoms),
			Bonds:       len(m.Bonds),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReferenceGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := reference.Lookup(name)
	if !ok {
		s.writeError(w, r, apperr.New(apperr.ErrCodeReferenceNotFound, "unknown reference molecule: %q", name))
		return
	}
	resp := newStructureResponse(m.Structure)
	resp.Formula = m.Formula
	resp.Description = m.Description
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Saved Structures
// =============================================================================

type createStructureRequest struct {
	Name   string `json:"name"`
	Smiles string `json:"smiles"`
}

func (s *Server) handleStructureCreate(w http.ResponseWriter, r *http.Request) {
	var req createStructureRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errInvalid("invalid request body: %v", err))
		return
	}
	if err := apperr.ValidateSource(req.Smiles); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := apperr.ValidateName(req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	st, err := s.runner.Layout(r.Context(), pipeline.Options{Source: req.Smiles})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), storage.NewRecord(req.Name, req.Smiles, st))
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeStorage, err, "save structure"))
		return
	}
	w.Header().Set("Location", "/api/v1/structures/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleStructureList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeStorage, err, "list structures"))
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleStructureGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStructureDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
