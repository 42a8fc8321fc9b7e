package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
)

var themeColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// normalize canonicalizes enumerations, rejecting unknown spellings.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").Build()
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").Build()
	}
	cfg.Logging.Format = format

	cfg.Content = strings.TrimSpace(cfg.Content)
	cfg.Output = strings.TrimSpace(cfg.Output)
	cfg.Deploy.Repository = strings.TrimSpace(cfg.Deploy.Repository)
	cfg.Deploy.ContentPath = strings.Trim(strings.TrimSpace(cfg.Deploy.ContentPath), "/")
	return nil
}

// Validate checks the configuration for values no build could use.
func (c *Config) Validate() error {
	if c.Content == "" {
		return ferrors.ConfigError("content root cannot be empty").Build()
	}
	if c.Output == "" {
		return ferrors.ConfigError("output directory cannot be empty").Build()
	}
	if err := validateMarker(c.Build.Marker); err != nil {
		return err
	}
	if c.Theme.Color != "" && !themeColorPattern.MatchString(c.Theme.Color) {
		return ferrors.ConfigError("theme.color must be a hex color such as #2c3e50").
			WithContext("color", c.Theme.Color).
			Build()
	}
	if err := validateDuration("watch.debounce", c.Watch.Debounce); err != nil {
		return err
	}
	if c.Notify.Enabled() {
		if err := validateDuration("notify.timeout", c.Notify.Timeout); err != nil {
			return err
		}
		if strings.ContainsAny(c.Notify.Subject, " \t\r\n") {
			return ferrors.ConfigError("notify.subject cannot contain whitespace").
				WithContext("subject", c.Notify.Subject).
				Build()
		}
	}
	if _, err := c.AliasTable(); err != nil {
		return err
	}
	return nil
}

// validateMarker requires a bare file name that is not one of the pages.
func validateMarker(marker string) error {
	switch {
	case marker == "", marker == ".", marker == "..":
		return ferrors.ConfigError(fmt.Sprintf("invalid build.marker %q", marker)).Build()
	case strings.ContainsAny(marker, `/\`) || filepath.Base(marker) != marker:
		return ferrors.ConfigError("build.marker must be a file name, not a path").
			WithContext("marker", marker).
			Build()
	case slices.Contains(pages.Files(), marker):
		return ferrors.ConfigError("build.marker cannot be a page file").
			WithContext("marker", marker).
			Build()
	}
	return nil
}

func validateDuration(name, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid "+name).
			WithContext("value", raw).
			Build()
	}
	if d < 0 {
		return ferrors.ConfigError(name + " cannot be negative").WithContext("value", raw).Build()
	}
	return nil
}
