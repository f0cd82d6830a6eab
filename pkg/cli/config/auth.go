package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for OIDC authentication configuration
type Auth struct {
	issuer       string
	clientID     string
	clientSecret string

	noAuthSub   string
	noAuthEmail string
	noAuthName  string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "oidc-issuer",
			Usage:       "OIDC issuer URL (e.g. https://accounts.google.com)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_OIDC_ISSUER"),
			Destination: &x.issuer,
		},
		&cli.StringFlag{
			Name:        "oidc-client-id",
			Usage:       "OIDC client ID",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_OIDC_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "oidc-client-secret",
			Usage:       "OIDC client secret",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_OIDC_CLIENT_SECRET"),
			Destination: &x.clientSecret,
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email address reported for the no-auth user",
			Category:    "Authentication",
			Value:       "dev@localhost",
			Sources:     cli.EnvVars("THEMIS_NO_AUTH_EMAIL"),
			Destination: &x.noAuthEmail,
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name reported for the no-auth user",
			Category:    "Authentication",
			Value:       "Local Developer",
			Sources:     cli.EnvVars("THEMIS_NO_AUTH_NAME"),
			Destination: &x.noAuthName,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("issuer", x.issuer),
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Bool("no-auth", x.noAuthSub != ""),
	)
}

// SetNoAuthSub enables no-auth mode running as the given subject
func (x *Auth) SetNoAuthSub(sub string) {
	x.noAuthSub = sub
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthSub != ""
}

// IsConfigured checks if the OIDC configuration is complete
func (x *Auth) IsConfigured() bool {
	return x.issuer != "" && x.clientID != "" && x.clientSecret != ""
}

// Configure creates the OIDC auth use case, or the no-auth variant when
// no-auth mode is enabled.
func (x *Auth) Configure(repo interfaces.Repository, baseURL string) (usecase.AuthUseCaseInterface, error) {
	if x.noAuthSub != "" {
		if x.issuer != "" || x.clientID != "" {
			slog.Warn("--no-auth is set, ignoring --oidc-issuer/--oidc-client-id")
		}
		return usecase.NewNoAuthnUseCase(repo, x.noAuthSub, x.noAuthEmail, x.noAuthName), nil
	}

	if !x.IsConfigured() || baseURL == "" {
		return nil, goerr.New("OIDC configuration is required: set --oidc-issuer, --oidc-client-id, --oidc-client-secret, and --base-url, or use --no-auth")
	}

	callbackURL := baseURL + "/api/auth/callback"
	return usecase.NewAuthUseCase(repo, x.issuer, x.clientID, x.clientSecret, callbackURL), nil
}
