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
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MetadataFilename == "" {
		return errors.New("library.metadata_filename must be set")
	}
	if strings.ContainsAny(c.Library.MetadataFilename, `/\`) {
		return fmt.Errorf("library.metadata_filename must be a bare filename, got %q", c.Library.MetadataFilename)
	}
	if c.Library.AuditLogFilename == "" {
		return errors.New("library.audit_log_filename must be set")
	}
	if strings.ContainsAny(c.Library.AuditLogFilename, `/\`) {
		return fmt.Errorf("library.audit_log_filename must be a bare filename, got %q", c.Library.AuditLogFilename)
	}
	if len(c.Library.AudioExtensions) == 0 {
		return errors.New("library.audio_extensions must include at least one extension")
	}
	if c.Library.MinVolumeWidth < 1 || c.Library.MinVolumeWidth > 6 {
		return errors.New("library.min_volume_width must be between 1 and 6")
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
