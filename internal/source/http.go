package source

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "lrcframe/1.0 (+https://github.com/ivlev/lrcframe)"

// MaxResponseSize caps a downloaded (decompressed) page
const MaxResponseSize = 4 << 20

// HTTPSource downloads lyrics from a URL. HTML pages are reduced to their text.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	userAgent  string
}

func NewHTTPSource(rawURL string) *HTTPSource {
	return &HTTPSource{
		url:        rawURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
}

// WithClient replaces the HTTP client
func (h *HTTPSource) WithClient(c *http.Client) *HTTPSource {
	h.httpClient = c
	return h
}

// Name is the last path segment without extension, or the host
func (h *HTTPSource) Name() string {
	u, err := url.Parse(h.url)
	if err != nil {
		return "remote"
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Hostname()
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func (h *HTTPSource) Read(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error fetching %s: status %d", h.url, resp.StatusCode)
	}

	var reader io.Reader = resp.Body

	// Handle gzip decompression
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, MaxResponseSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return "", fmt.Errorf("response from %s exceeds %d bytes", h.url, MaxResponseSize)
	}

	text := string(body)
	if isHTML(resp.Header.Get("Content-Type"), text) {
		return extractText(text)
	}
	return text, nil
}

func isHTML(contentType, body string) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
}

// extractText pulls lyrics out of an HTML page: every <pre> block, or the whole body
func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var blocks []string
	doc.Find("pre").Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n"), nil
	}

	return doc.Find("body").Text(), nil
}
