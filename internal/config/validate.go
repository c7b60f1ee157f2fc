package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return fmt.Errorf("paths.download_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		return fmt.Errorf("paths.destination_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TorrentOutputDir) == "" {
		return fmt.Errorf("paths.torrent_output_dir must be set")
	}
	return nil
}

func (c *Config) validateTracker() error {
	if c.Tracker.APIURL != "" {
		parsed, err := url.Parse(c.Tracker.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("tracker.api_url %q is not a valid URL", c.Tracker.APIURL)
		}
	}
	if c.Tracker.AnnounceURL != "" {
		parsed, err := url.Parse(c.Tracker.AnnounceURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("tracker.announce_url %q is not a valid URL", c.Tracker.AnnounceURL)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// RequireUpload ensures the settings needed for torrent build and submission
// are present. Split out of Validate so read-only commands work without them.
func (c *Config) RequireUpload() error {
	if c.Tracker.AnnounceURL == "" {
		return fmt.Errorf("tracker.announce_url must be set to build torrents")
	}
	if c.Tracker.APIKey == "" {
		return fmt.Errorf("tracker.api_key must be set to submit uploads")
	}
	return nil
}
