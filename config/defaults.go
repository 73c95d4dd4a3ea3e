package config

const (
	defaultSelfID       = "you"
	defaultIntervalSecs = 5
	defaultHistoryCount = 12
)

var defaultPeers = []string{"ada", "lin"}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			SelfID:       defaultSelfID,
			Peers:        append([]string(nil), defaultPeers...),
			IntervalSecs: defaultIntervalSecs,
			HistoryCount: defaultHistoryCount,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  true,
		File:    "logs/chatfeed.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Feed.SelfID == "" {
		c.Feed.SelfID = defaultSelfID
	}
	if len(c.Feed.Peers) == 0 {
		c.Feed.Peers = append([]string(nil), defaultPeers...)
	}
	if c.Feed.IntervalSecs <= 0 {
		c.Feed.IntervalSecs = defaultIntervalSecs
	}
	if c.Feed.HistoryCount <= 0 {
		c.Feed.HistoryCount = defaultHistoryCount
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
