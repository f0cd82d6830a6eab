package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type controlResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ControlSetID    string `json:"controlSetId"`
	ControlSetTitle string `json:"controlSetTitle"`

	ControlStatus        string   `json:"controlStatus"`
	ControlApplicability string   `json:"controlApplicability"`
	Justification        []string `json:"justification,omitempty"`
	RelatedRisks         []string `json:"relatedRisks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toControlResponse(c *model.SoAControl) *controlResponse {
	resp := &controlResponse{
		ID:                   c.ID.String(),
		Title:                c.Title,
		ControlSetID:         c.ControlSetID,
		ControlSetTitle:      c.ControlSetTitle,
		ControlStatus:        c.ControlStatus.String(),
		ControlApplicability: c.ControlApplicability.String(),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
	for _, j := range c.Justification {
		resp.Justification = append(resp.Justification, j.String())
	}
	for _, riskID := range c.RelatedRisks {
		resp.RelatedRisks = append(resp.RelatedRisks, riskID.String())
	}
	return resp
}

type controlGroupResponse struct {
	SetID    string             `json:"setId"`
	SetTitle string             `json:"setTitle"`
	Controls []*controlResponse `json:"controls"`
}

func listControlsHandler(uc *usecase.SoAUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := uc.ListControls(r.Context())
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := make([]*controlGroupResponse, 0, len(groups))
		for _, group := range groups {
			g := &controlGroupResponse{
				SetID:    group.SetID,
				SetTitle: group.SetTitle,
				Controls: make([]*controlResponse, 0, len(group.Controls)),
			}
			for _, control := range group.Controls {
				g.Controls = append(g.Controls, toControlResponse(control))
			}
			resp = append(resp, g)
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func updateControlHandler(uc *usecase.SoAUseCase) http.HandlerFunc {
	type request struct {
		ControlStatus        string   `json:"controlStatus"`
		ControlApplicability string   `json:"controlApplicability"`
		Justification        []string `json:"justification"`
		RelatedRisks         []string `json:"relatedRisks"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		controlID := types.ControlID(chi.URLParam(r, "controlID"))

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		status, err := types.ParseControlStatus(req.ControlStatus)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid control status"), http.StatusBadRequest)
			return
		}

		applicability, err := types.ParseControlApplicability(req.ControlApplicability)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid control applicability"), http.StatusBadRequest)
			return
		}

		input := &usecase.SoAControlInput{
			ControlStatus:        status,
			ControlApplicability: applicability,
		}
		for _, j := range req.Justification {
			input.Justification = append(input.Justification, types.Justification(j))
		}
		for _, raw := range req.RelatedRisks {
			riskID, err := types.ParseRiskID(raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(usecase.ErrInvalidInput, invalidRiskIDMessage), http.StatusBadRequest)
				return
			}
			input.RelatedRisks = append(input.RelatedRisks, riskID)
		}

		control, err := uc.UpdateControl(r.Context(), controlID, input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toControlResponse(control))
	}
}

func migrateControlsHandler(uc *usecase.SoAUseCase) http.HandlerFunc {
	type request struct {
		Controls []*model.LegacyControlDocument `json:"controls"`
	}
	type response struct {
		Migrated int `json:"migrated"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		migrated, err := uc.MigrateLegacyControls(r.Context(), req.Controls)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, response{Migrated: migrated})
	}
}
