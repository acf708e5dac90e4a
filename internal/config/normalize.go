package config

import (
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if trimmed := strings.TrimSpace(c.Paths.LibraryDir); trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		c.Paths.LibraryDir = expanded
	} else {
		c.Paths.LibraryDir = ""
	}

	if trimmed := strings.TrimSpace(c.Paths.LogDir); trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		c.Paths.LogDir = expanded
	} else {
		c.Paths.LogDir = ""
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	c.Library.MetadataFilename = strings.TrimSpace(c.Library.MetadataFilename)
	c.Library.AuditLogFilename = strings.TrimSpace(c.Library.AuditLogFilename)

	seen := make(map[string]struct{}, len(c.Library.AudioExtensions))
	normalized := make([]string, 0, len(c.Library.AudioExtensions))
	for _, ext := range c.Library.AudioExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		normalized = append(normalized, ext)
	}
	c.Library.AudioExtensions = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}
