package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Treatment() TreatmentRepository
	Workshop() WorkshopRepository
	Control() ControlRepository
	Asset() AssetRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
