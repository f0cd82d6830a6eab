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

type treatmentRequest struct {
	Title   string `json:"title"`
	Owner   string `json:"owner"`
	DueDate string `json:"dueDate"`
}

func (req *treatmentRequest) toInput() (*usecase.TreatmentInput, error) {
	input := &usecase.TreatmentInput{
		Title: req.Title,
		Owner: req.Owner,
	}
	if req.DueDate != "" {
		due, ok := dates.Parse(req.DueDate)
		if !ok {
			return nil, goerr.New("invalid due date", goerr.V("dueDate", req.DueDate))
		}
		input.DueDate = &due
	}
	return input, nil
}

type treatmentResponse struct {
	ID     int64  `json:"id"`
	RiskID string `json:"riskId"`
	Title  string `json:"title"`
	Owner  string `json:"owner,omitempty"`

	DueDate         *time.Time `json:"dueDate,omitempty"`
	ExtendedDueDate *time.Time `json:"extendedDueDate,omitempty"`
	ExtensionCount  int        `json:"extensionCount"`
	CompletionDate  *time.Time `json:"completionDate,omitempty"`
	ClosureApproval string     `json:"closureApproval,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTreatmentResponse(t *model.Treatment) *treatmentResponse {
	return &treatmentResponse{
		ID:              t.ID,
		RiskID:          t.RiskID.String(),
		Title:           t.Title,
		Owner:           t.Owner,
		DueDate:         t.DueDate,
		ExtendedDueDate: t.ExtendedDueDate,
		ExtensionCount:  t.ExtensionCount,
		CompletionDate:  t.CompletionDate,
		ClosureApproval: string(t.ClosureApproval),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func treatmentIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "treatmentID"), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid treatment ID")
	}
	return id, nil
}

func listTreatmentsHandler(uc *usecase.TreatmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riskID, err := types.ParseRiskID(r.URL.Query().Get("riskId"))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(usecase.ErrInvalidInput, invalidRiskIDMessage), http.StatusBadRequest)
			return
		}

		treatments, err := uc.ListTreatments(r.Context(), riskID)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		resp := make([]*treatmentResponse, 0, len(treatments))
		for _, t := range treatments {
			resp = append(resp, toTreatmentResponse(t))
		}
		writeData(r.Context(), w, http.StatusOK, resp)
	}
}

func createTreatmentHandler(uc *usecase.TreatmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riskID, err := riskIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req treatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		input, err := req.toInput()
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		treatment, err := uc.CreateTreatment(r.Context(), riskID, input)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusCreated, toTreatmentResponse(treatment))
	}
}

func extendTreatmentHandler(uc *usecase.TreatmentUseCase) http.HandlerFunc {
	type request struct {
		NewDueDate string `json:"newDueDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := treatmentIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		due, ok := dates.Parse(req.NewDueDate)
		if !ok {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("invalid due date", goerr.V("newDueDate", req.NewDueDate)), http.StatusBadRequest)
			return
		}

		treatment, err := uc.ExtendTreatment(r.Context(), id, due)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toTreatmentResponse(treatment))
	}
}

func completeTreatmentHandler(uc *usecase.TreatmentUseCase) http.HandlerFunc {
	type request struct {
		CompletionDate string `json:"completionDate"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := treatmentIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		completedAt := time.Now().UTC()
		if req.CompletionDate != "" {
			parsed, ok := dates.Parse(req.CompletionDate)
			if !ok {
				errutil.HandleHTTP(r.Context(), w,
					goerr.New("invalid completion date", goerr.V("completionDate", req.CompletionDate)), http.StatusBadRequest)
				return
			}
			completedAt = parsed
		}

		treatment, err := uc.CompleteTreatment(r.Context(), id, completedAt)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toTreatmentResponse(treatment))
	}
}

func reviewClosureHandler(uc *usecase.TreatmentUseCase) http.HandlerFunc {
	type request struct {
		Approve bool `json:"approve"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := treatmentIDParam(r)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		treatment, err := uc.ReviewClosure(r.Context(), id, req.Approve)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		writeData(r.Context(), w, http.StatusOK, toTreatmentResponse(treatment))
	}
}
