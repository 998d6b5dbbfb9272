package ogmeta_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"noonpick/internal/adapters/ogmeta"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="순남시래기 삼성점" />
  <meta property="og:description" content="시래기 정식 전문점" />
  <meta property="og:image" content="http://img.example.com/photo.jpg" />
</head>
<body>hello</body>
</html>`

func TestFetch_ParsesOGTags(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	f := ogmeta.New(ts.Client())
	meta, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if meta.Title != "순남시래기 삼성점" {
		t.Errorf("title: %q", meta.Title)
	}
	if meta.Description != "시래기 정식 전문점" {
		t.Errorf("description: %q", meta.Description)
	}
	if meta.Image != "http://img.example.com/photo.jpg" {
		t.Errorf("image: %q", meta.Image)
	}
}

func TestFetch_MissingTagsAreEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>no og tags</title></head></html>"))
	}))
	defer ts.Close()

	meta, err := ogmeta.New(ts.Client()).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !meta.Empty() {
		t.Fatalf("expected empty triple, got %+v", meta)
	}
}

func TestFetch_NonOKStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	if _, err := ogmeta.New(ts.Client()).Fetch(context.Background(), ts.URL); err == nil {
		t.Fatalf("expected error for 502")
	}
}
