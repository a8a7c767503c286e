package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// treeQuery is the parsed query string of the tree routes.
type treeQuery struct {
	Focus       string `validate:"omitempty,max=128"`
	Selected    string `validate:"omitempty,max=128"`
	Ancestors   *int   `validate:"omitempty,min=0,max=6"`
	Descendants *int   `validate:"omitempty,min=0,max=6"`
	Palette     string `validate:"omitempty,oneof=default print"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Search(r.URL.Query().Get("q")))
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	p, found := d.Person(id)
	if !found {
		s.writeError(w, r, apperr.New(apperr.ErrCodePersonNotFound, "no person with id %q", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !d.HasPerson(id) {
		s.writeError(w, r, apperr.New(apperr.ErrCodePersonNotFound, "no person with id %q", id))
		return
	}
	writeJSON(w, http.StatusOK, d.ImmediateRelations(id))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	problems := family.Audit(d)
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"people":   len(d.People),
		"problems": problems,
	})
}

// handleTree draws the tree around the requested focus in format.
func (s *Server) handleTree(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseTreeQuery(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		d, ok := s.load(w, r)
		if !ok {
			return
		}

		opts := s.treeOptions(d, q, format)
		res, err := s.runner.Execute(r.Context(), d, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		cacheStatus := "miss"
		if res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit {
			cacheStatus = "hit"
		}
		w.Header().Set("Content-Type", contentType(format))
		w.Header().Set("X-Cache", cacheStatus)
		w.Header().Set("X-Tree-Nodes", strconv.Itoa(res.Stats.People))
		w.WriteHeader(http.StatusOK)
		w.Write(res.Artifacts[format])
	}
}

// =============================================================================
// Helpers
// =============================================================================

// load reads the family, writing an error response on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*family.FamilyData, bool) {
	d, err := store.LoadOrEmpty(r.Context(), s.store)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return d, true
}

// treeOptions merges the query over the server defaults. Without any focus
// the first person is shown; an empty family draws the placeholder.
func (s *Server) treeOptions(d *family.FamilyData, q treeQuery, format string) pipeline.Options {
	opts := s.defaults
	opts.Formats = []string{format}
	opts.Logger = s.logger
	if q.Focus != "" {
		opts.FocusID = q.Focus
	}
	if opts.FocusID == "" && len(d.People) > 0 {
		opts.FocusID = d.People[0].ID
	}
	if q.Ancestors != nil {
		opts.AncestorDepth = *q.Ancestors
	}
	if q.Descendants != nil {
		opts.DescendantDepth = *q.Descendants
	}
	if q.Selected != "" {
		opts.SelectedID = q.Selected
	}
	if q.Palette != "" {
		opts.Palette = q.Palette
	}
	return opts
}

func parseTreeQuery(r *http.Request) (treeQuery, error) {
	v := r.URL.Query()
	q := treeQuery{
		Focus:    v.Get("focus"),
		Selected: v.Get("selected"),
		Palette:  v.Get("palette"),
	}
	depths := []struct {
		name string
		dst  **int
	}{
		{"ancestors", &q.Ancestors},
		{"descendants", &q.Descendants},
	}
	for _, d := range depths {
		name, dst := d.name, d.dst
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, apperr.New(apperr.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
		}
		*dst = &n
	}
	if err := validate.Struct(q); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return q, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid tree query")
		}
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = describe(fe)
		}
		return q, apperr.New(apperr.ErrCodeInvalidInput, "invalid tree query: %s", strings.Join(msgs, "; "))
	}
	return q, nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type errorBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// writeError maps coded errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	body := errorBody{Error: apperr.UserMessage(err), Code: string(code)}
	if msgs := apperr.Messages(err); len(msgs) > 1 {
		body.Details = msgs
	}
	writeJSON(w, status, body)
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeNotFound, apperr.ErrCodePersonNotFound, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperr.ErrCodeTreeTooLarge:
		return http.StatusUnprocessableEntity
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
