package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// techniquesResponse carries the technique array as data with the feed
// metadata alongside it, not wrapped inside it.
type techniquesResponse struct {
	Success     bool               `json:"success"`
	Data        []*model.Technique `json:"data"`
	Count       int                `json:"count"`
	Source      string             `json:"source"`
	LastUpdated time.Time          `json:"lastUpdated"`
	Note        string             `json:"note,omitempty"`
}

// mitreTechniquesHandler serves ATT&CK techniques. The response is always
// 200 for authenticated callers; feed trouble is reported through the
// source and note fields instead of an error status.
func mitreTechniquesHandler(uc *usecase.MitreUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := uc.GetTechniques(r.Context())
		writeJSON(r.Context(), w, http.StatusOK, techniquesResponse{
			Success:     true,
			Data:        result.Techniques,
			Count:       len(result.Techniques),
			Source:      result.Source,
			LastUpdated: result.FetchedAt,
			Note:        result.Note,
		})
	}
}
