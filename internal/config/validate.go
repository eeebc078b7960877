package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if strings.TrimSpace(c.Resolver.Binary) == "" {
		return errors.New("resolver.binary must be set")
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		return errors.New("resolver.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateImport() error {
	switch c.Import.DuplicatePolicy {
	case "interactive", "auto":
		return nil
	default:
		return fmt.Errorf("import.duplicate_policy: unsupported value %q (use \"interactive\" or \"auto\")", c.Import.DuplicatePolicy)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
