package usecase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// AuthUseCase implements the OIDC authorization-code flow against a
// configurable issuer. Endpoints are discovered from the issuer's
// well-known configuration.
type AuthUseCase struct {
	repo         interfaces.Repository
	issuer       string
	clientID     string
	clientSecret string
	callbackURL  string
	cache        *authCache
}

func NewAuthUseCase(repo interfaces.Repository, issuer, clientID, clientSecret, callbackURL string) *AuthUseCase {
	return &AuthUseCase{
		repo:         repo,
		issuer:       strings.TrimRight(issuer, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURL:  callbackURL,
		cache:        newAuthCache(),
	}
}

// OpenIDConfiguration is the subset of the issuer's discovery document we use
type OpenIDConfiguration struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// GetAuthURL returns the issuer's authorization URL for the code flow.
// Discovery failures fall back to the conventional /authorize path so the
// login redirect still points somewhere sensible.
func (uc *AuthUseCase) GetAuthURL(state string) string {
	endpoint := uc.issuer + "/authorize"
	if config, err := uc.getOpenIDConfiguration(context.Background()); err == nil && config.AuthorizationEndpoint != "" {
		endpoint = config.AuthorizationEndpoint
	}

	params := url.Values{}
	params.Set("client_id", uc.clientID)
	params.Set("scope", "openid email profile")
	params.Set("redirect_uri", uc.callbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)

	return endpoint + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type idTokenClaims struct {
	Sub   string
	Email string
	Name  string
}

// HandleCallback exchanges the authorization code, verifies the ID token
// against the issuer's JWKS and stores a session token.
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	config, err := uc.getOpenIDConfiguration(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get OpenID configuration")
	}

	tokenResp, err := uc.exchangeCodeForToken(ctx, config.TokenEndpoint, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for token")
	}
	if tokenResp.Error != "" {
		return nil, goerr.New("oidc token error",
			goerr.V("error", tokenResp.Error), goerr.V("description", tokenResp.ErrorDescription))
	}
	if tokenResp.IDToken == "" {
		return nil, goerr.New("token response has no ID token")
	}

	claims, err := uc.verifyIDToken(ctx, config.JWKSURI, tokenResp.IDToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to verify ID token")
	}

	token := auth.NewToken(claims.Sub, claims.Email, claims.Name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}

	return token, nil
}

func (uc *AuthUseCase) exchangeCodeForToken(ctx context.Context, tokenEndpoint, code string) (*tokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", uc.clientID)
	data.Set("client_secret", uc.clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", uc.callbackURL)

	encodedData := data.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", tokenEndpoint, strings.NewReader(encodedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = int64(len(encodedData))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to make token request")
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse token response")
	}

	return &tokenResp, nil
}

func (uc *AuthUseCase) getOpenIDConfiguration(ctx context.Context) (*OpenIDConfiguration, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", uc.issuer+"/.well-known/openid-configuration", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch OpenID configuration")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("failed to fetch OpenID configuration", goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read OpenID configuration response")
	}

	var config OpenIDConfiguration
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse OpenID configuration")
	}

	return &config, nil
}

func (uc *AuthUseCase) verifyIDToken(ctx context.Context, jwksURI, idToken string) (*idTokenClaims, error) {
	keySet, err := jwk.Fetch(ctx, jwksURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch issuer public keys", goerr.V("jwks_uri", jwksURI))
	}

	// Allow 10 seconds of clock skew to handle time synchronization differences
	token, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAudience(uc.clientID),
		jwt.WithAcceptableSkew(10))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify JWT token")
	}

	claims := &idTokenClaims{}

	sub, ok := token.Get("sub")
	if !ok {
		return nil, goerr.New("sub claim not found in token")
	}
	if claims.Sub, ok = sub.(string); !ok {
		return nil, goerr.New("sub claim is not a string")
	}

	if email, ok := token.Get("email"); ok {
		claims.Email, _ = email.(string)
	}
	if name, ok := token.Get("name"); ok {
		claims.Name, _ = name.(string)
	}

	return claims, nil
}

// ValidateToken validates the token and returns user info
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.remove(tokenID)
	return uc.repo.DeleteToken(ctx, tokenID)
}
