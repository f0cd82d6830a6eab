package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type assetRequest struct {
	Name           string `json:"name"`
	Owner          string `json:"owner"`
	Classification string `json:"classification"`
}

type assetResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Owner          string    `json:"owner,omitempty"`
	Classification string    `json:"classification,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toAssetResponse(a *model.InformationAsset) *assetResponse {
	return &assetResponse{
		ID:             a.ID,
		Name:           a.Name,
		Owner:          a.Owner,
		Classification: a.Classification,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func listAssetsHandler(uc *usecase.AssetUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := uc.ListAssets(r.Context())
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := make([]*assetResponse, 0, len(assets))
		for _, asset := range assets {
			resp = append(resp, toAssetResponse(asset))
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func createAssetHandler(uc *usecase.AssetUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		asset, err := uc.CreateAsset(r.Context(), &usecase.AssetInput{
			Name:           req.Name,
			Owner:          req.Owner,
			Classification: req.Classification,
		})
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusCreated, toAssetResponse(asset))
	}
}

func getAssetHandler(uc *usecase.AssetUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := uc.GetAsset(r.Context(), chi.URLParam(r, "assetID"))
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toAssetResponse(asset))
	}
}
