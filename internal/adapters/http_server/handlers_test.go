package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "noonpick/internal/adapters/http_server"
	"noonpick/internal/app"
	"noonpick/internal/domain"
)

type fakeOfficeRepo struct {
	offices []domain.Office
}

func (f *fakeOfficeRepo) GetOffice(_ context.Context, code string) (domain.Office, error) {
	for _, o := range f.offices {
		if o.Code == code {
			return o, nil
		}
	}
	return domain.Office{}, domain.ErrOfficeNotFound
}

func (f *fakeOfficeRepo) ListOffices(context.Context) ([]domain.Office, error) {
	return f.offices, nil
}

func (f *fakeOfficeRepo) SeedOffices(context.Context, []domain.Office) error { return nil }

type fakeVisitRepo struct {
	userID int64
	key    string
	name   string
}

func (f *fakeVisitRepo) RecordVisit(_ context.Context, userID int64, placeKey, placeName string) error {
	f.userID, f.key, f.name = userID, placeKey, placeName
	return nil
}

func newTestServer(visits *fakeVisitRepo) (*httpserver.Server, *fakeOfficeRepo) {
	offices := &fakeOfficeRepo{offices: []domain.Office{
		{Code: "seoul", Name: "Seoul Office", Lat: 37.5093056, Lng: 127.0610611, IsDefault: true},
		{Code: "daejeon", Name: "Daejeon Office", Lat: 36.39116, Lng: 127.408},
	}}
	srv := httpserver.New(time.Second)
	srv.MountHandlers(&httpserver.Handlers{
		Visits:        app.NewVisitService(visits, nil),
		Offices:       offices,
		DefaultRadius: 300,
	})
	return srv, offices
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(&fakeVisitRepo{})
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestGetRecommendation_InvalidRadius(t *testing.T) {
	// Radius validation runs before the pipeline; no service is touched.
	srv, _ := newTestServer(&fakeVisitRepo{})
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/lunch/reco?radius=-5", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %q", ct)
	}
	var p struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Title != "Invalid radius" {
		t.Fatalf("unexpected title %q", p.Title)
	}
}

func TestListOffices_ETag(t *testing.T) {
	srv, _ := newTestServer(&fakeVisitRepo{})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/lunch/offices", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	var got []domain.Office
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode offices: %v", err)
	}
	if len(got) != 2 || got[0].Code != "seoul" {
		t.Fatalf("unexpected offices: %+v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/lunch/offices", nil)
	req.Header.Set("If-None-Match", etag)
	rec2 := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 on matching ETag, got %d", rec2.Code)
	}
	if rec2.Body.Len() != 0 {
		t.Fatal("304 must carry no body")
	}
}

func TestRecordVisit(t *testing.T) {
	visits := &fakeVisitRepo{}
	srv, _ := newTestServer(visits)

	body := strings.NewReader(`{"user_id": 42, "place_key": "kakao:10332413", "place_name": "순남시래기 삼성점"}`)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/lunch/visits", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if visits.userID != 42 || visits.key != "kakao:10332413" {
		t.Fatalf("visit not recorded: %+v", visits)
	}
}

func TestRecordVisit_MissingKey(t *testing.T) {
	srv, _ := newTestServer(&fakeVisitRepo{})
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/lunch/visits", strings.NewReader(`{"user_id": 1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecordVisit_DefaultsNameAndUser(t *testing.T) {
	visits := &fakeVisitRepo{}
	srv, _ := newTestServer(visits)

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/lunch/visits", strings.NewReader(`{"place_key": "derived:abc"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if visits.userID != 1 {
		t.Fatalf("expected default user 1, got %d", visits.userID)
	}
	if visits.name != "place_derived:abc" {
		t.Fatalf("expected synthesized name, got %q", visits.name)
	}
}
