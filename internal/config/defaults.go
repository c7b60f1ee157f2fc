package config

const (
	defaultDownloadDir           = "~/.local/share/presser/downloads"
	defaultDestinationDir        = "~/seeding"
	defaultTorrentOutputDir      = "~/.local/share/presser/torrents"
	defaultLogDir                = "~/.local/share/presser/logs"
	defaultQobuzDLBinary         = "qobuz-dl"
	defaultFlacBinary            = "flac"
	defaultAPIURL                = "https://redacted.sh/ajax.php"
	defaultSourceTag             = "RED"
	defaultTrackerRequestTimeout = 120
	defaultScrapeRequestTimeout  = 20
	defaultScrapeUserAgent       = "presser/dev"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir:      defaultDownloadDir,
			DestinationDir:   defaultDestinationDir,
			TorrentOutputDir: defaultTorrentOutputDir,
			LogDir:           defaultLogDir,
		},
		Tools: Tools{
			QobuzDLBinary: defaultQobuzDLBinary,
			FlacBinary:    defaultFlacBinary,
		},
		Tracker: Tracker{
			APIURL:         defaultAPIURL,
			SourceTag:      defaultSourceTag,
			RequestTimeout: defaultTrackerRequestTimeout,
		},
		Scrape: Scrape{
			RequestTimeout: defaultScrapeRequestTimeout,
			UserAgent:      defaultScrapeUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
