// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 || cfg.App.ResetTokenDuration <= 0 {
		return fmt.Errorf("%w: token durations must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.Environment != EnvDevelopment && cfg.App.Environment != EnvProduction {
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidAppConfigs, cfg.App.Environment)
	}
	if !absoluteHTTPURL(cfg.App.PublicURL) {
		return fmt.Errorf("%w: public url must be an absolute http(s) url, got %q", ErrInvalidAppConfigs, cfg.App.PublicURL)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.RateLimitRequests <= 0 || cfg.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Notifier.Enabled() && cfg.Notifier.Topic == "" {
		return fmt.Errorf("%w: kafka topic is required", ErrInvalidNotifierConfigs)
	}

	if cfg.Attachments.MaxSize <= 0 {
		return fmt.Errorf("%w: max size must be positive", ErrInvalidAttachmentConfigs)
	}

	return nil
}

// derivePublicURL fills an empty public URL in development from the
// listen address. Production has no fallback.
func (cfg *StructuredConfig) derivePublicURL() {
	if cfg.App.PublicURL != "" || cfg.App.Environment != EnvDevelopment {
		return
	}

	host, port, err := net.SplitHostPort(cfg.Server.HTTPAddress)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	cfg.App.PublicURL = "http://" + net.JoinHostPort(host, port)
}

func absoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
