package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeImport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	c.Resolver.Binary = strings.TrimSpace(c.Resolver.Binary)
	if c.Resolver.Binary == "" {
		c.Resolver.Binary = defaultResolverBinary
	}
	if c.Resolver.TimeoutSeconds == 0 {
		c.Resolver.TimeoutSeconds = defaultResolverTimeout
	}
	c.Resolver.CookiesFromBrowser = strings.TrimSpace(c.Resolver.CookiesFromBrowser)
	c.Resolver.UserAgent = strings.TrimSpace(c.Resolver.UserAgent)
	if c.Resolver.UserAgent == "" {
		c.Resolver.UserAgent = defaultResolverUserAgent
	}
}

func (c *Config) normalizeImport() {
	c.Import.DuplicatePolicy = strings.ToLower(strings.TrimSpace(c.Import.DuplicatePolicy))
	if c.Import.DuplicatePolicy == "" {
		c.Import.DuplicatePolicy = defaultDuplicatePolicy
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
}
