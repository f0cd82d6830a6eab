package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/dates"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type workshopRequest struct {
	ScheduledAt string `json:"scheduledAt"`
	Facilitator string `json:"facilitator"`
	Status      string `json:"status"`
}

func (req *workshopRequest) toInput() (*usecase.WorkshopInput, error) {
	input := &usecase.WorkshopInput{
		Facilitator: req.Facilitator,
		Status:      types.WorkshopStatus(req.Status),
	}
	if req.ScheduledAt != "" {
		scheduled, ok := dates.Parse(req.ScheduledAt)
		if !ok {
			return nil, goerr.New("invalid scheduled date", goerr.V("scheduledAt", req.ScheduledAt))
		}
		input.ScheduledAt = &scheduled
	}
	return input, nil
}

type minuteItemResponse struct {
	RiskID             string  `json:"riskId"`
	SelectedTreatments []int64 `json:"selectedTreatments,omitempty"`
	ActionsTaken       string  `json:"actionsTaken,omitempty"`
	ToDo               string  `json:"toDo,omitempty"`
	Outcome            string  `json:"outcome,omitempty"`
}

type workshopResponse struct {
	ID          int64      `json:"id"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Facilitator string     `json:"facilitator,omitempty"`
	Status      string     `json:"status"`

	Extensions []minuteItemResponse `json:"extensions"`
	Closure    []minuteItemResponse `json:"closure"`
	NewRisks   []minuteItemResponse `json:"newRisks"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toMinuteItemResponses(items []model.MinuteItem) []minuteItemResponse {
	resp := make([]minuteItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, minuteItemResponse{
			RiskID:             item.RiskID.String(),
			SelectedTreatments: item.SelectedTreatments,
			ActionsTaken:       item.ActionsTaken,
			ToDo:               item.ToDo,
			Outcome:            item.Outcome,
		})
	}
	return resp
}

func toWorkshopResponse(w *model.Workshop) *workshopResponse {
	return &workshopResponse{
		ID:          w.ID,
		ScheduledAt: w.ScheduledAt,
		Facilitator: w.Facilitator,
		Status:      w.Status.String(),
		Extensions:  toMinuteItemResponses(w.Extensions),
		Closure:     toMinuteItemResponses(w.Closure),
		NewRisks:    toMinuteItemResponses(w.NewRisks),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func workshopIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "workshopID"), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid workshop ID")
	}
	return id, nil
}

func minuteCategoryParam(r *http.Request) (types.MinuteCategory, error) {
	category, err := types.ParseMinuteCategory(chi.URLParam(r, "category"))
	if err != nil {
		return "", goerr.Wrap(usecase.ErrInvalidInput, "invalid minute category")
	}
	return category, nil
}

func listWorkshopsHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workshops, err := uc.ListWorkshops(r.Context())
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := make([]*workshopResponse, 0, len(workshops))
		for _, workshop := range workshops {
			resp = append(resp, toWorkshopResponse(workshop))
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func createWorkshopHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workshopRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		input, err := req.toInput()
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		workshop, err := uc.CreateWorkshop(r.Context(), input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusCreated, toWorkshopResponse(workshop))
	}
}

func getWorkshopHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		workshop, err := uc.GetWorkshop(r.Context(), id)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}

func updateWorkshopHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req workshopRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		input, err := req.toInput()
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		workshop, err := uc.UpdateWorkshop(r.Context(), id, input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}

// updateWorkshopStatusHandler changes only the status, carrying the rest of
// the workshop through unchanged.
func updateWorkshopStatusHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	type request struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		status, err := types.ParseWorkshopStatus(req.Status)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid workshop status"), http.StatusBadRequest)
			return
		}

		current, err := uc.GetWorkshop(r.Context(), id)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		workshop, err := uc.UpdateWorkshop(r.Context(), id, &usecase.WorkshopInput{
			ScheduledAt: current.ScheduledAt,
			Facilitator: current.Facilitator,
			Status:      status,
		})
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}

func addAgendaItemHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	type request struct {
		Category           string  `json:"category"`
		RiskID             string  `json:"riskId"`
		SelectedTreatments []int64 `json:"selectedTreatments"`
		ActionsTaken       string  `json:"actionsTaken"`
		ToDo               string  `json:"toDo"`
		Outcome            string  `json:"outcome"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		category, err := types.ParseMinuteCategory(req.Category)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid minute category"), http.StatusBadRequest)
			return
		}

		riskID, err := types.ParseRiskID(req.RiskID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(usecase.ErrInvalidInput, invalidRiskIDMessage), http.StatusBadRequest)
			return
		}

		workshop, err := uc.AddAgendaItem(r.Context(), id, category, model.MinuteItem{
			RiskID:             riskID,
			SelectedTreatments: req.SelectedTreatments,
			ActionsTaken:       req.ActionsTaken,
			ToDo:               req.ToDo,
			Outcome:            req.Outcome,
		})
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}

func removeAgendaItemHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		category, err := minuteCategoryParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid item index"), http.StatusBadRequest)
			return
		}

		workshop, err := uc.RemoveAgendaItem(r.Context(), id, category, index)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}

func recordMinuteOutcomeHandler(uc *usecase.WorkshopUseCase) http.HandlerFunc {
	type request struct {
		ActionsTaken string `json:"actionsTaken"`
		ToDo         string `json:"toDo"`
		Outcome      string `json:"outcome"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := workshopIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		category, err := minuteCategoryParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid item index"), http.StatusBadRequest)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		workshop, err := uc.RecordMinuteOutcome(r.Context(), id, category, index, req.ActionsTaken, req.ToDo, req.Outcome)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toWorkshopResponse(workshop))
	}
}
