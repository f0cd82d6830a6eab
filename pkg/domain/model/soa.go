package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// SoAControl represents a Statement of Applicability entry for an
// ISO/IEC 27001:2022 Annex A control.
type SoAControl struct {
	ID              types.ControlID
	Title           string
	ControlSetID    string
	ControlSetTitle string

	ControlStatus        types.ControlStatus
	ControlApplicability types.ControlApplicability
	Justification        []types.Justification

	// RelatedRisks is a loose reference list; dangling IDs are rejected at
	// write time by the usecase, not by the store.
	RelatedRisks []types.RiskID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the control for structural validity. An applicable control
// must carry at least one justification.
func (c *SoAControl) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid control ID")
	}
	if c.Title == "" {
		return goerr.New("control title is required", goerr.V("id", c.ID))
	}
	if c.ControlSetID == "" {
		return goerr.New("control set ID is required", goerr.V("id", c.ID))
	}
	if !c.ControlStatus.IsValid() {
		return goerr.New("invalid control status",
			goerr.V("id", c.ID), goerr.V("status", c.ControlStatus))
	}
	if !c.ControlApplicability.IsValid() {
		return goerr.New("invalid control applicability",
			goerr.V("id", c.ID), goerr.V("applicability", c.ControlApplicability))
	}
	if c.ControlApplicability == types.ControlApplicable {
		if err := types.ValidateJustifications(c.Justification); err != nil {
			return goerr.Wrap(err, "invalid justification", goerr.V("id", c.ID))
		}
	}
	for _, riskID := range c.RelatedRisks {
		if err := riskID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid related risk", goerr.V("id", c.ID))
		}
	}
	return nil
}

// LegacyControlDocument is the pre-migration persisted shape: `status`
// instead of `controlStatus` (with the retired "Planned" value), and a
// justification field that may be either a scalar string or an array.
type LegacyControlDocument struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	ControlSetID    string          `json:"controlSetId"`
	ControlSetTitle string          `json:"controlSetTitle"`
	Status          string          `json:"status,omitempty"`
	ControlStatus   string          `json:"controlStatus,omitempty"`
	Applicability   string          `json:"controlApplicability"`
	Justification   json.RawMessage `json:"justification"`
	RelatedRisks    []string        `json:"relatedRisks"`
}

// Upgrade converts a legacy document into the canonical control shape.
// This is the one-time migration path; reads do not tolerate legacy shapes.
func (d *LegacyControlDocument) Upgrade() (*SoAControl, error) {
	rawStatus := d.ControlStatus
	if rawStatus == "" {
		rawStatus = d.Status
	}
	status, err := types.ParseControlStatus(rawStatus)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot upgrade control status", goerr.V("id", d.ID))
	}

	applicability, err := types.ParseControlApplicability(d.Applicability)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot upgrade control applicability", goerr.V("id", d.ID))
	}

	justifications, err := upgradeJustification(d.Justification)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot upgrade justification", goerr.V("id", d.ID))
	}

	control := &SoAControl{
		ID:                   types.ControlID(d.ID),
		Title:                d.Title,
		ControlSetID:         d.ControlSetID,
		ControlSetTitle:      d.ControlSetTitle,
		ControlStatus:        status,
		ControlApplicability: applicability,
		Justification:        justifications,
	}
	for _, r := range d.RelatedRisks {
		riskID, err := types.ParseRiskID(r)
		if err != nil {
			return nil, goerr.Wrap(err, "cannot upgrade related risk", goerr.V("id", d.ID))
		}
		control.RelatedRisks = append(control.RelatedRisks, riskID)
	}
	if err := control.Validate(); err != nil {
		return nil, err
	}
	return control, nil
}

// upgradeJustification accepts both the legacy scalar and the current array
// shape and always yields an array.
func upgradeJustification(raw json.RawMessage) ([]types.Justification, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var scalar string
		if err := json.Unmarshal(raw, &scalar); err != nil {
			return nil, goerr.New("justification is neither string nor array")
		}
		list = []string{scalar}
	}
	justifications := make([]types.Justification, 0, len(list))
	for _, s := range list {
		justifications = append(justifications, types.Justification(s))
	}
	return justifications, nil
}
