package config

import "strings"

func (c *Config) normalize() {
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	c.Export.Compression = canonical(c.Export.Compression, defaultExportCompression)
	c.normalizeLogging()
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = canonical(c.Logging.Format, defaultLogFormat)
	if c.Logging.Format == "console" {
		c.Logging.Format = "text"
	}
	c.Logging.Level = canonical(c.Logging.Level, defaultLogLevel)
}

func canonical(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
