// internal/adapters/ogmeta/fetcher.go
package ogmeta

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"noonpick/internal/adapters/observability"
	"noonpick/internal/domain"
)

// Fetcher scrapes Open Graph meta tags from a place's detail page.
type Fetcher struct {
	hc *http.Client
}

func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{hc: client}
}

// Fetch returns the og:title / og:description / og:image triple for url.
// Missing tags come back as empty strings; a transport or parse failure is
// an error the caller may absorb.
func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Meta{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	start := time.Now()
	resp, err := f.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("ogmeta", "fetch", 0, time.Since(start))
		return domain.Meta{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("ogmeta", "fetch", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return domain.Meta{}, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.Meta{}, fmt.Errorf("parse document: %w", err)
	}

	return domain.Meta{
		Title:       metaProperty(doc, "og:title"),
		Description: metaProperty(doc, "og:description"),
		Image:       metaProperty(doc, "og:image"),
	}, nil
}

func metaProperty(doc *goquery.Document, prop string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, prop)).First().Attr("content")
	return content
}
