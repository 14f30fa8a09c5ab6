package synthesis

import (
	"errors"

	"github.com/ainaphakhruddin/airchives/internal/infra"
)

// ErrNotConfigured indicates that neither provider has a credential present.
// Callers must fail fast on it before attempting any network call.
var ErrNotConfigured = errors.New("synthesis: no provider credentials configured")

// Resolve picks the active provider once at startup: first-configured-wins.
// If the Fal key is present it is used exclusively for the process lifetime;
// Replicate serves only when Fal has no credential. This is a static choice,
// not a per-call failover.
func Resolve(cfg *infra.Config, logger *infra.Logger) (Provider, error) {
	if cfg.FalAPIKey != "" {
		return NewFal(FalOptions{
			APIKey:         cfg.FalAPIKey,
			BaseURL:        cfg.FalBaseURL,
			Logger:         logger,
			RequestTimeout: cfg.SynthesisTimeout,
		}), nil
	}
	if cfg.ReplicateAPIToken != "" {
		return NewReplicate(ReplicateOptions{
			APIToken:        cfg.ReplicateAPIToken,
			BaseURL:         cfg.ReplicateBaseURL,
			Logger:          logger,
			PollInterval:    cfg.PollInterval,
			PollMaxAttempts: cfg.PollMaxAttempts,
		}), nil
	}
	return nil, ErrNotConfigured
}
