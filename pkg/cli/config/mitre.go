package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/themis/pkg/service/mitre"
	"github.com/urfave/cli/v3"
)

// Mitre holds CLI flags for the ATT&CK technique feed
type Mitre struct {
	feedURL         string
	cacheTTL        time.Duration
	refreshInterval time.Duration
}

func (x *Mitre) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mitre-feed-url",
			Usage:       "MITRE ATT&CK STIX bundle URL",
			Category:    "MITRE",
			Value:       mitre.DefaultFeedURL,
			Sources:     cli.EnvVars("THEMIS_MITRE_FEED_URL"),
			Destination: &x.feedURL,
		},
		&cli.DurationFlag{
			Name:        "mitre-cache-ttl",
			Usage:       "Cache lifetime for fetched techniques",
			Category:    "MITRE",
			Value:       mitre.DefaultCacheTTL,
			Sources:     cli.EnvVars("THEMIS_MITRE_CACHE_TTL"),
			Destination: &x.cacheTTL,
		},
		&cli.DurationFlag{
			Name:        "mitre-refresh-interval",
			Usage:       "Background refresh interval (0 disables the worker)",
			Category:    "MITRE",
			Value:       6 * time.Hour,
			Sources:     cli.EnvVars("THEMIS_MITRE_REFRESH_INTERVAL"),
			Destination: &x.refreshInterval,
		},
	}
}

func (x Mitre) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("feed-url", x.feedURL),
		slog.Duration("cache-ttl", x.cacheTTL),
		slog.Duration("refresh-interval", x.refreshInterval),
	)
}

// RefreshInterval returns the background refresh interval
func (x *Mitre) RefreshInterval() time.Duration {
	return x.refreshInterval
}

// Configure builds the technique service and its cache
func (x *Mitre) Configure() (mitre.Service, *mitre.Cache) {
	svc := mitre.New(mitre.WithFeedURL(x.feedURL))
	cache := mitre.NewCache(x.cacheTTL)
	return svc, cache
}
