package memory

import (
	"errors"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a create collides with an existing record
var ErrAlreadyExists = errors.New("record already exists")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory Repository backend used for development and tests
type Memory struct {
	risk      *riskRepository
	treatment *treatmentRepository
	workshop  *workshopRepository
	control   *controlRepository
	asset     *assetRepository
	tokens    *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk:      newRiskRepository(),
		treatment: newTreatmentRepository(),
		workshop:  newWorkshopRepository(),
		control:   newControlRepository(),
		asset:     newAssetRepository(),
		tokens:    newTokenStore(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Treatment() interfaces.TreatmentRepository {
	return m.treatment
}

func (m *Memory) Workshop() interfaces.WorkshopRepository {
	return m.workshop
}

func (m *Memory) Control() interfaces.ControlRepository {
	return m.control
}

func (m *Memory) Asset() interfaces.AssetRepository {
	return m.asset
}

func (m *Memory) Close() error {
	return nil
}
