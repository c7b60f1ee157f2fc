package gazelle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"presser/internal/catalog"
	"presser/internal/logging"
	"presser/internal/services"
)

// Client submits prepared torrents and their metadata to a Gazelle tracker
// over the ajax upload endpoint.
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
	logger *slog.Logger
}

// Receipt is the tracker's acknowledgement of an accepted upload.
type Receipt struct {
	TorrentID int64
	GroupID   int64
}

type apiResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Response struct {
		TorrentID int64 `json:"torrentid"`
		GroupID   int64 `json:"groupid"`
	} `json:"response"`
}

func NewClient(apiURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		logger: logging.NewComponentLogger(logger, "gazelle"),
	}
}

// Upload posts the torrent file and submission fields to the tracker and
// returns the identifiers the tracker assigned. With dryRun set the tracker
// validates the submission without creating the torrent.
func (c *Client) Upload(ctx context.Context, sub catalog.Submission, torrentPath string, dryRun bool) (Receipt, error) {
	body, contentType, err := c.encodeForm(sub, torrentPath, dryRun)
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?action=upload", body)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "build request", c.apiURL, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", c.apiKey)

	c.logger.Info("submitting upload",
		logging.String("artist", sub.Artist),
		logging.String("title", sub.Title),
		logging.String("torrent", filepath.Base(torrentPath)))

	resp, err := c.http.Do(req)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "post", c.apiURL, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "read response", c.apiURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "post",
			fmt.Sprintf("status %d: %s", resp.StatusCode, firstLine(payload)), nil)
	}

	var parsed apiResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "decode response", firstLine(payload), err)
	}
	if !statusOK(parsed.Status) {
		detail := parsed.Error
		if detail == "" {
			detail = parsed.Status
		}
		return Receipt{}, services.Wrap(services.ErrUpload, "gazelle", "upload rejected", detail, nil)
	}

	receipt := Receipt{
		TorrentID: parsed.Response.TorrentID,
		GroupID:   parsed.Response.GroupID,
	}
	c.logger.Info("upload accepted",
		logging.Int64("torrent_id", receipt.TorrentID),
		logging.Int64("group_id", receipt.GroupID))
	return receipt, nil
}

// statusOK decides whether the tracker accepted the upload. Gazelle variants
// disagree on the exact status value, so this matches any status containing
// "success". That makes a status like "successfully aborted" read as
// acceptance; no deployed variant emits one, but keep this in mind when
// pointing presser at a new tracker.
func statusOK(status string) bool {
	return strings.Contains(strings.ToLower(status), "success")
}

func (c *Client) encodeForm(sub catalog.Submission, torrentPath string, dryRun bool) (*bytes.Buffer, string, error) {
	torrent, err := os.ReadFile(torrentPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrUpload, "gazelle", "read torrent", torrentPath, err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file_input", filepath.Base(torrentPath))
	if err != nil {
		return nil, "", services.Wrap(services.ErrUpload, "gazelle", "encode form", torrentPath, err)
	}
	if _, err := part.Write(torrent); err != nil {
		return nil, "", services.Wrap(services.ErrUpload, "gazelle", "encode form", torrentPath, err)
	}

	fields := map[string]string{
		"type":                      strconv.Itoa(sub.Category),
		"artists[]":                 sub.Artist,
		"importance[]":              "1",
		"title":                     sub.Title,
		"year":                      sub.Year,
		"releasetype":               strconv.Itoa(int(sub.ReleaseType)),
		"format":                    sub.Format,
		"bitrate":                   sub.Bitrate,
		"media":                     sub.Media,
		"tags":                      sub.Tags,
		"image":                     sub.ImageURL,
		"album_desc":                sub.AlbumDescription,
		"release_desc":              sub.ReleaseDescription,
		"remaster_year":             sub.RemasterYear,
		"remaster_title":            sub.RemasterTitle,
		"remaster_record_label":     sub.RemasterLabel,
		"remaster_catalogue_number": sub.RemasterCatalogue,
	}
	if sub.GroupID != "" {
		fields["groupid"] = sub.GroupID
	}
	if sub.Scene {
		fields["scene"] = "on"
	}
	if dryRun {
		fields["dry_run"] = "1"
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", services.Wrap(services.ErrUpload, "gazelle", "encode form", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", services.Wrap(services.ErrUpload, "gazelle", "encode form", torrentPath, err)
	}
	return body, writer.FormDataContentType(), nil
}

func firstLine(payload []byte) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(payload)), "\n")
	if len(line) > 200 {
		line = line[:200]
	}
	return line
}
