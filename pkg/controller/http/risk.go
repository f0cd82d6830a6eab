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

// invalidRiskIDMessage is the fixed client-facing message for malformed
// risk identifiers on any route.
const invalidRiskIDMessage = "Invalid risk ID format. Expected format: RISK-XXX"

type riskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Phase       string `json:"phase"`

	Confidentiality bool `json:"confidentiality"`
	Integrity       bool `json:"integrity"`
	Availability    bool `json:"availability"`

	LikelihoodRating    string `json:"likelihoodRating"`
	ConsequenceRating   string `json:"consequenceRating"`
	ResidualLikelihood  string `json:"residualLikelihoodRating"`
	ResidualConsequence string `json:"residualConsequenceRating"`

	CurrentControls                  []string `json:"currentControls"`
	CurrentControlsReference         []string `json:"currentControlsReference"`
	ApplicableControlsAfterTreatment []string `json:"applicableControlsAfterTreatment"`
	InformationAssetIDs              []string `json:"informationAssetIds"`
}

func (req *riskRequest) toInput() (*usecase.RiskInput, error) {
	input := &usecase.RiskInput{
		Title:       req.Title,
		Description: req.Description,
		Owner:       req.Owner,
		Phase:       types.RiskPhase(req.Phase),
		Impact: model.CIAImpact{
			Confidentiality: req.Confidentiality,
			Integrity:       req.Integrity,
			Availability:    req.Availability,
		},
		CurrentControls:     req.CurrentControls,
		InformationAssetIDs: req.InformationAssetIDs,
	}

	if req.LikelihoodRating != "" {
		v, err := types.ParseLikelihood(req.LikelihoodRating)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid likelihood rating")
		}
		input.Likelihood = v
	}
	if req.ConsequenceRating != "" {
		v, err := types.ParseConsequence(req.ConsequenceRating)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid consequence rating")
		}
		input.Consequence = v
	}
	if req.ResidualLikelihood != "" {
		v, err := types.ParseLikelihood(req.ResidualLikelihood)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid residual likelihood rating")
		}
		input.ResidualLikelihood = v
	}
	if req.ResidualConsequence != "" {
		v, err := types.ParseConsequence(req.ResidualConsequence)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid residual consequence rating")
		}
		input.ResidualConsequence = v
	}

	for _, id := range req.CurrentControlsReference {
		input.CurrentControlsReference = append(input.CurrentControlsReference, types.ControlID(id))
	}
	for _, id := range req.ApplicableControlsAfterTreatment {
		input.ApplicableControlsAfterTreatment = append(input.ApplicableControlsAfterTreatment, types.ControlID(id))
	}

	return input, nil
}

type riskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Phase       string `json:"phase"`

	Confidentiality bool `json:"confidentiality"`
	Integrity       bool `json:"integrity"`
	Availability    bool `json:"availability"`

	LikelihoodRating    string `json:"likelihoodRating,omitempty"`
	ConsequenceRating   string `json:"consequenceRating,omitempty"`
	RiskRating          string `json:"riskRating,omitempty"`
	ResidualLikelihood  string `json:"residualLikelihoodRating,omitempty"`
	ResidualConsequence string `json:"residualConsequenceRating,omitempty"`
	ResidualRiskRating  string `json:"residualRiskRating,omitempty"`

	CurrentControls                  []string `json:"currentControls,omitempty"`
	CurrentControlsReference         []string `json:"currentControlsReference,omitempty"`
	ApplicableControlsAfterTreatment []string `json:"applicableControlsAfterTreatment,omitempty"`
	InformationAssetIDs              []string `json:"informationAssetIds,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRiskResponse(risk *model.Risk) *riskResponse {
	resp := &riskResponse{
		ID:          risk.ID.String(),
		Title:       risk.Title,
		Description: risk.Description,
		Owner:       risk.Owner,
		Phase:       risk.Phase.String(),

		Confidentiality: risk.Impact.Confidentiality,
		Integrity:       risk.Impact.Integrity,
		Availability:    risk.Impact.Availability,

		LikelihoodRating:    risk.LikelihoodRating.String(),
		ConsequenceRating:   risk.ConsequenceRating.String(),
		RiskRating:          risk.RiskRating.String(),
		ResidualLikelihood:  risk.ResidualLikelihood.String(),
		ResidualConsequence: risk.ResidualConsequence.String(),
		ResidualRiskRating:  risk.ResidualRiskRating.String(),

		CurrentControls:     risk.CurrentControls,
		InformationAssetIDs: risk.InformationAssetIDs,

		CreatedAt: risk.CreatedAt,
		UpdatedAt: risk.UpdatedAt,
	}
	for _, id := range risk.CurrentControlsReference {
		resp.CurrentControlsReference = append(resp.CurrentControlsReference, id.String())
	}
	for _, id := range risk.ApplicableControlsAfterTreatment {
		resp.ApplicableControlsAfterTreatment = append(resp.ApplicableControlsAfterTreatment, id.String())
	}
	return resp
}

// riskIDParam parses and canonicalizes the riskID route parameter. Parse
// failures become the fixed 400 message before any repository access.
func riskIDParam(r *http.Request) (types.RiskID, error) {
	id, err := types.ParseRiskID(chi.URLParam(r, "riskID"))
	if err != nil {
		return "", goerr.Wrap(usecase.ErrInvalidInput, invalidRiskIDMessage)
	}
	return id, nil
}

func listRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := uc.ListRisks(r.Context())
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := make([]*riskResponse, 0, len(risks))
		for _, risk := range risks {
			resp = append(resp, toRiskResponse(risk))
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func createRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req riskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		input, err := req.toInput()
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		risk, err := uc.CreateRisk(r.Context(), input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusCreated, toRiskResponse(risk))
	}
}

func nextRiskIDHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	type response struct {
		RiskID string `json:"riskId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := uc.NextRiskID(r.Context())
		writeData(r.Context(), w, http.StatusOK, response{RiskID: id.String()})
	}
}

func getRiskDetailHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	type response struct {
		Risk       *riskResponse        `json:"risk"`
		Treatments []*treatmentResponse `json:"treatments"`
		Assets     []*assetResponse     `json:"informationAssets"`
		Controls   []*controlResponse   `json:"controls"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := riskIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		detail, err := uc.GetRiskDetail(r.Context(), id)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := response{
			Risk:       toRiskResponse(detail.Risk),
			Treatments: make([]*treatmentResponse, 0, len(detail.Treatments)),
			Assets:     make([]*assetResponse, 0, len(detail.Assets)),
			Controls:   make([]*controlResponse, 0, len(detail.Controls)),
		}
		for _, t := range detail.Treatments {
			resp.Treatments = append(resp.Treatments, toTreatmentResponse(t))
		}
		for _, a := range detail.Assets {
			resp.Assets = append(resp.Assets, toAssetResponse(a))
		}
		for _, c := range detail.Controls {
			resp.Controls = append(resp.Controls, toControlResponse(c))
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func updateRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	type response struct {
		Risk                  *riskResponse `json:"risk"`
		AssetSelectionChanged bool          `json:"assetSelectionChanged"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := riskIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req riskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		input, err := req.toInput()
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		result, err := uc.UpdateRisk(r.Context(), id, input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, response{
			Risk:                  toRiskResponse(result.Risk),
			AssetSelectionChanged: result.AssetSelectionChanged,
		})
	}
}
