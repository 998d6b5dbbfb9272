// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"noonpick/internal/app"
	"noonpick/internal/domain"
)

type Handlers struct {
	Reco          *app.RecommendService
	Visits        *app.VisitService
	Offices       domain.OfficeRepository
	DefaultRadius int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/lunch/reco", h.getRecommendation)
	s.mux.Get("/v1/lunch/offices", h.listOffices)
	s.mux.Post("/v1/lunch/visits", h.recordVisit)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// splitCSV splits a comma-separated query value, dropping empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handlers) getRecommendation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	office := q.Get("office")
	if office == "" {
		office = "seoul"
	}

	radius := h.DefaultRadius
	if radius <= 0 {
		radius = 300
	}
	if rs := q.Get("radius"); rs != "" {
		v, err := strconv.Atoi(rs)
		if err != nil || v <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be a positive integer in meters")
			return
		}
		radius = v
	}

	// Tags pass through uppercased; a tag outside the taxonomy simply never
	// matches any candidate.
	var tags []domain.Tag
	for _, c := range splitCSV(q.Get("cats")) {
		tags = append(tags, domain.Tag(strings.ToUpper(c)))
	}

	excluded := make(map[string]struct{})
	for _, id := range splitCSV(q.Get("exclude")) {
		excluded[id] = struct{}{}
	}

	rec, err := h.Reco.Recommend(r.Context(), app.RecommendRequest{
		Office:   office,
		RadiusM:  radius,
		Tags:     tags,
		Excluded: excluded,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOfficeNotFound):
			writeProblem(w, http.StatusNotFound, "Office Not Found", "unknown office code: "+office)
		case errors.Is(err, domain.ErrNoCandidates):
			writeProblem(w, http.StatusNotFound, "No Candidates", "nothing to recommend for the given filters")
		default:
			log.Error().Err(err).Msg("recommendation failed")
			writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) listOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.Offices.ListOffices(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list offices failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	etag, body := calcETagAndBody(offices)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write offices body")
	}
}

type visitRequest struct {
	UserID    int64  `json:"user_id"`
	PlaceKey  string `json:"place_key"`
	PlaceName string `json:"place_name"`
}

func (h *Handlers) recordVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON")
		return
	}
	if req.PlaceKey == "" {
		writeProblem(w, http.StatusBadRequest, "Missing place_key", "place_key is required")
		return
	}
	if req.UserID == 0 {
		req.UserID = 1
	}

	if err := h.Visits.RecordVisit(r.Context(), req.UserID, req.PlaceKey, req.PlaceName); err != nil {
		log.Error().Err(err).Str("place", req.PlaceKey).Msg("record visit failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}
