// Package catalogue embeds the ISO/IEC 27001:2022 Annex A control catalogue
// used to seed the Statement of Applicability.
package catalogue

import (
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

//go:embed annex_a.toml
var annexAData []byte

// Catalogue is the parsed Annex A control catalogue
type Catalogue struct {
	Sets []ControlSet `toml:"sets"`
}

// ControlSet is one Annex A section (A.5 Organizational, A.6 People, ...)
type ControlSet struct {
	ID       string  `toml:"id"`
	Title    string  `toml:"title"`
	Controls []Entry `toml:"controls"`
}

// Entry is a single catalogue control
type Entry struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
}

// AnnexA parses the embedded catalogue
func AnnexA() (*Catalogue, error) {
	var catalogue Catalogue
	if err := toml.Unmarshal(annexAData, &catalogue); err != nil {
		return nil, goerr.Wrap(err, "failed to parse Annex A catalogue")
	}
	if len(catalogue.Sets) == 0 {
		return nil, goerr.New("Annex A catalogue is empty")
	}
	return &catalogue, nil
}

// Controls flattens the catalogue into SoA control records with seed
// defaults: planning implementation, applicable, best-practice justification.
func (c *Catalogue) Controls() ([]*model.SoAControl, error) {
	var controls []*model.SoAControl
	for _, set := range c.Sets {
		for _, entry := range set.Controls {
			control := &model.SoAControl{
				ID:                   types.ControlID(entry.ID),
				Title:                entry.Title,
				ControlSetID:         set.ID,
				ControlSetTitle:      set.Title,
				ControlStatus:        types.ControlPlanningImplementation,
				ControlApplicability: types.ControlApplicable,
				Justification:        []types.Justification{types.JustificationBestPractice},
			}
			if err := control.Validate(); err != nil {
				return nil, goerr.Wrap(err, "invalid catalogue entry", goerr.V("id", entry.ID))
			}
			controls = append(controls, control)
		}
	}
	return controls, nil
}
