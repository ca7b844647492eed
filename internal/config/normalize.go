package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeTarget()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNaming() {
	c.Naming.IdentifierPrefix = strings.ToUpper(strings.TrimSpace(c.Naming.IdentifierPrefix))
	if c.Naming.IdentifierPrefix == "" {
		c.Naming.IdentifierPrefix = defaultIdentifierPrefix
	}
	c.Naming.FolderPrefix = strings.ToUpper(strings.TrimSpace(c.Naming.FolderPrefix))
	if c.Naming.FolderPrefix == "" {
		c.Naming.FolderPrefix = defaultFolderPrefix
	}
}

func (c *Config) normalizeTarget() {
	c.Target.ReferenceName = strings.TrimSpace(c.Target.ReferenceName)
	if c.Target.ReferenceName == "" {
		c.Target.ReferenceName = defaultReferenceName
	}
	if c.Target.CopyBufferKiB == 0 {
		c.Target.CopyBufferKiB = defaultCopyBufferKiB
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
