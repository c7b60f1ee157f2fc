package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"presser/internal/logging"
	"presser/internal/services"
)

// AlbumData holds the best-effort extractions from an album page. Either
// field may be empty when the page lacked the element or the fetch failed.
type AlbumData struct {
	CoverURL  string
	Tracklist string
}

// Client fetches remote pages and extracts album metadata from their markup.
// Every extraction is best-effort: structural drift in the source page yields
// absent results and a logged warning, never a pipeline failure.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

func NewClient(timeout time.Duration, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logging.NewComponentLogger(logger, "scrape"),
	}
}

// Album fetches an album page and returns whatever cover URL and tracklist
// could be extracted. Failures degrade per extraction and are logged here, at
// the boundary.
func (c *Client) Album(ctx context.Context, pageURL string) AlbumData {
	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("album page fetch failed", logging.String("url", pageURL), logging.Error(err))
		return AlbumData{}
	}

	var data AlbumData
	if cover, err := extractCover(doc); err != nil {
		c.logger.Warn("cover extraction degraded", logging.String("url", pageURL), logging.Error(err))
	} else {
		data.CoverURL = cover
	}
	if tracklist, err := extractTracklist(doc); err != nil {
		c.logger.Warn("tracklist extraction degraded", logging.String("url", pageURL), logging.Error(err))
	} else {
		data.Tracklist = tracklist
	}
	return data
}

// AlbumLinks fetches an artist or label listing page and returns the album
// page URLs it references, resolved absolute and deduplicated in first-seen
// order.
func (c *Client) AlbumLinks(ctx context.Context, pageURL string) ([]string, error) {
	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, services.Wrap(services.ErrScrape, "scrape", "parse url", pageURL, err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(".product a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "/album/") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(ref).String()
		if _, dup := seen[absolute]; dup {
			return
		}
		seen[absolute] = struct{}{}
		links = append(links, absolute)
	})
	return links, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrScrape, "scrape", "build request", pageURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrScrape, "scrape", "fetch", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrScrape, "scrape", "fetch",
			fmt.Sprintf("%s: status %d", pageURL, resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrScrape, "scrape", "parse html", pageURL, err)
	}
	return doc, nil
}

// extractCover looks for the album cover image, falling back to the generic
// social preview meta tag.
func extractCover(doc *goquery.Document) (string, error) {
	if src, ok := doc.Find("img.album-cover__image").First().Attr("src"); ok && src != "" {
		return src, nil
	}
	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && content != "" {
		return content, nil
	}
	return "", services.Wrap(services.ErrScrape, "scrape", "cover", "no cover element", nil)
}

// extractTracklist walks the repeated track rows and joins them into one
// ordered multi-line description. An explicit marker sub-element is excluded
// from the title text and appended as a textual suffix instead.
func extractTracklist(doc *goquery.Document) (string, error) {
	var lines []string
	doc.Find(".track").Each(func(_ int, row *goquery.Selection) {
		number := strings.TrimSpace(row.Find(".track__item--number").First().Text())
		duration := strings.TrimSpace(row.Find(".track__item--duration").First().Text())

		name := row.Find(".track__item--name").First()
		explicit := name.Find(".explicit").Length() > 0
		title := strings.TrimSpace(name.Clone().Children().Remove().End().Text())
		if title == "" {
			title = strings.TrimSpace(name.Text())
		}
		if explicit {
			title += " [Explicit]"
		}

		if title == "" {
			return
		}
		line := title
		if number != "" {
			line = number + ". " + line
		}
		if duration != "" {
			line += " (" + duration + ")"
		}
		lines = append(lines, line)
	})
	if len(lines) == 0 {
		return "", services.Wrap(services.ErrScrape, "scrape", "tracklist", "no track rows", nil)
	}
	return strings.Join(lines, "\n"), nil
}
