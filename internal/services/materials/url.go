package materials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order to locate the main content block
var contentSelectors = []string{"main", "article", "[role='main']", "#content", ".content"}

// fetchURL downloads a page and extracts its title and main content as markdown
func (s *Service) fetchURL(ctx context.Context, url string) (title, text string, err error) {
	timeout := 30 * time.Second
	if d, perr := time.ParseDuration(s.config.RequestTimeout); perr == nil && d > 0 {
		timeout = d
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.config.MaxBodySize)))
	if err != nil {
		return "", "", fmt.Errorf("reading response body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	title = extractTitle(doc)

	// Strip chrome, then find the main content block
	doc.Find("script, style, nav, footer, aside, header").Remove()
	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			content = sel
			break
		}
	}

	html, err := goquery.OuterHtml(content)
	if err != nil {
		return title, "", fmt.Errorf("rendering content: %w", err)
	}

	converter := md.NewConverter(url, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("HTML to markdown conversion failed, using plain text")
		markdown = content.Text()
	}

	return title, strings.TrimSpace(markdown), nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return ""
}
