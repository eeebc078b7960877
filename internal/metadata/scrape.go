package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultScrapeUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Scraper resolves metadata by fetching the video page and reading its
// OpenGraph and schema.org annotations. It is the fallback when yt-dlp
// cannot describe the URL; it never learns uploader identity as reliably
// as the extractor does, so callers treat its answers as partial.
type Scraper struct {
	client    *http.Client
	userAgent string
}

// NewScraper builds a page scraper. A nil client gets a default with a
// conservative timeout.
func NewScraper(client *http.Client, userAgent string) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = defaultScrapeUserAgent
	}
	return &Scraper{client: client, userAgent: userAgent}
}

// Resolve fetches the page and extracts whatever annotations it carries.
func (s *Scraper) Resolve(ctx context.Context, videoURL string) (*Metadata, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("scrape: empty url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,ja;q=0.6")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusNotFound, http.StatusGone, http.StatusUnavailableForLegalReasons:
		return nil, fmt.Errorf("%w: page returned %s", ErrUnavailable, resp.Status)
	default:
		return nil, fmt.Errorf("scrape fetch: unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scrape parse: %w", err)
	}

	meta := parseDocument(doc)
	if meta.Title == "" {
		return nil, fmt.Errorf("scrape parse: no usable annotations at %s", videoURL)
	}
	return meta, nil
}

func parseDocument(doc *goquery.Document) *Metadata {
	meta := &Metadata{}

	meta.Title = metaContent(doc, `meta[property="og:title"]`)
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	meta.UploadDate = normalizeScrapedDate(firstNonEmpty(
		metaContent(doc, `meta[itemprop="uploadDate"]`),
		metaContent(doc, `meta[itemprop="datePublished"]`),
		metaContent(doc, `meta[property="video:release_date"]`),
	))

	meta.Uploader.Name = firstNonEmpty(
		metaContent(doc, `meta[itemprop="author"]`),
		strings.TrimSpace(doc.Find(`span[itemprop="author"] link[itemprop="name"]`).First().AttrOr("content", "")),
		metaContent(doc, `meta[name="author"]`),
	)
	meta.Uploader.Avatar = metaContent(doc, `meta[property="og:image"]`)

	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalizeScrapedDate reduces ISO 8601 timestamps to the date portion.
func normalizeScrapedDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 10 {
		candidate := value[:10]
		if _, err := time.Parse("2006-01-02", candidate); err == nil {
			return candidate
		}
	}
	return value
}
