package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTracker()
	c.normalizeScrape()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.DestinationDir, err = expandPath(c.Paths.DestinationDir); err != nil {
		return fmt.Errorf("paths.destination_dir: %w", err)
	}
	if c.Paths.TorrentOutputDir, err = expandPath(c.Paths.TorrentOutputDir); err != nil {
		return fmt.Errorf("paths.torrent_output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	for name, field := range map[string]*string{
		"paths.watch_dir":  &c.Paths.WatchDir,
		"paths.queue_file": &c.Paths.QueueFile,
		"paths.pages_file": &c.Paths.PagesFile,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		if *field, err = expandPath(*field); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.QobuzDLBinary) == "" {
		c.Tools.QobuzDLBinary = defaultQobuzDLBinary
	}
	if strings.TrimSpace(c.Tools.FlacBinary) == "" {
		c.Tools.FlacBinary = defaultFlacBinary
	}
}

func (c *Config) normalizeTracker() {
	c.Tracker.AnnounceURL = strings.TrimSpace(c.Tracker.AnnounceURL)
	c.Tracker.APIURL = strings.TrimRight(strings.TrimSpace(c.Tracker.APIURL), "/")
	if c.Tracker.APIURL == "" {
		c.Tracker.APIURL = defaultAPIURL
	}
	c.Tracker.APIKey = strings.TrimSpace(c.Tracker.APIKey)
	c.Tracker.SourceTag = strings.TrimSpace(c.Tracker.SourceTag)
	if c.Tracker.SourceTag == "" {
		c.Tracker.SourceTag = defaultSourceTag
	}
	if c.Tracker.RequestTimeout <= 0 {
		c.Tracker.RequestTimeout = defaultTrackerRequestTimeout
	}
}

func (c *Config) normalizeScrape() {
	if c.Scrape.RequestTimeout <= 0 {
		c.Scrape.RequestTimeout = defaultScrapeRequestTimeout
	}
	if strings.TrimSpace(c.Scrape.UserAgent) == "" {
		c.Scrape.UserAgent = defaultScrapeUserAgent
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Debug {
		c.Logging.Level = "debug"
	}
}
