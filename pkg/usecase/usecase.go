package usecase

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/service/mitre"
)

// AuthUseCaseInterface abstracts the authentication flow so the HTTP layer
// works identically with the OIDC flow and the no-auth development mode.
type AuthUseCaseInterface interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

type UseCases struct {
	repo interfaces.Repository

	Risk      *RiskUseCase
	Treatment *TreatmentUseCase
	Workshop  *WorkshopUseCase
	SoA       *SoAUseCase
	Asset     *AssetUseCase
	Mitre     *MitreUseCase
	Auth      AuthUseCaseInterface

	mitreService mitre.Service
	mitreCache   *mitre.Cache
}

type Option func(*UseCases)

// WithAuth sets the authentication use case
func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithMitre sets the MITRE technique service and its cache
func WithMitre(service mitre.Service, cache *mitre.Cache) Option {
	return func(uc *UseCases) {
		uc.mitreService = service
		uc.mitreCache = cache
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.mitreService == nil {
		uc.mitreService = mitre.New()
	}
	if uc.mitreCache == nil {
		uc.mitreCache = mitre.NewCache(0)
	}

	uc.Risk = NewRiskUseCase(repo)
	uc.Treatment = NewTreatmentUseCase(repo)
	uc.Workshop = NewWorkshopUseCase(repo)
	uc.SoA = NewSoAUseCase(repo)
	uc.Asset = NewAssetUseCase(repo)
	uc.Mitre = NewMitreUseCase(uc.mitreService, uc.mitreCache)

	return uc
}
