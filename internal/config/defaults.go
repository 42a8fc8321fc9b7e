package config

import (
	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/deploy"
	"git.home.luguber.info/inful/pagebuilder/internal/notify"
	"git.home.luguber.info/inful/pagebuilder/internal/watch"
)

// DefaultContent is the content root used when none is configured.
const DefaultContent = "schemas"

func applyDefaults(cfg *Config) {
	if cfg.Content == "" {
		cfg.Content = DefaultContent
	}
	if cfg.Output == "" {
		cfg.Output = "."
	}
	if cfg.Deploy.RepositoryEnv == "" {
		cfg.Deploy.RepositoryEnv = deploy.DefaultEnvVar
	}
	if cfg.Deploy.Branch == "" {
		cfg.Deploy.Branch = deploy.DefaultBranch
	}
	if cfg.Build.Marker == "" {
		cfg.Build.Marker = build.DefaultMarker
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Notify.Enabled() {
		if cfg.Notify.Subject == "" {
			cfg.Notify.Subject = notify.DefaultSubject
		}
		if cfg.Notify.Timeout == "" {
			cfg.Notify.Timeout = "5s"
		}
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = watch.DefaultDebounce.String()
	}
}
