package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// InformationAsset is a catalogue entry referenced by risks. Risks store
// asset IDs only; name resolution happens at read time against this record.
type InformationAsset struct {
	ID             string
	Name           string
	Owner          string
	Classification string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the asset for structural validity
func (a *InformationAsset) Validate() error {
	if a.Name == "" {
		return goerr.New("asset name is required")
	}
	return nil
}
