package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/service/mitre"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type fixedMitreService struct {
	result *mitre.Result
}

func (s *fixedMitreService) FetchTechniques(ctx context.Context) (*mitre.Result, error) {
	return s.result, nil
}

// setupServer builds a server in no-auth mode over the memory store
func setupServer(t *testing.T) *httpctrl.Server {
	t.Helper()
	repo := memory.New()
	authUC := usecase.NewNoAuthnUseCase(repo, "test-sub", "test@example.com", "Test User")
	uc := usecase.New(repo,
		usecase.WithAuth(authUC),
		usecase.WithMitre(&fixedMitreService{
			result: &mitre.Result{
				Techniques: mitre.SampleTechniques(),
				Source:     mitre.SourceRemote,
				FetchedAt:  time.Now().UTC(),
			},
		}, mitre.NewCache(0)),
	)
	return httpctrl.New(uc, httpctrl.WithAuth(authUC))
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope)).Required()
	gt.Bool(t, envelope.Success).True()
	if out != nil {
		gt.NoError(t, json.Unmarshal(envelope.Data, out)).Required()
	}
}

func createRiskViaAPI(t *testing.T, srv *httpctrl.Server) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/risks", map[string]any{
		"title":           "Unpatched VPN concentrator",
		"owner":           "IT Security",
		"confidentiality": true,
		"integrity":       true,
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var risk struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &risk)
	return risk.ID
}

func TestServer_Unauthorized(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	// An OIDC-style auth use case with no valid session
	authUC := usecase.NewAuthUseCase(repo, "https://idp.example.com", "client-id", "client-secret", "https://app.example.com/api/auth/callback")
	srv := httpctrl.New(uc, httpctrl.WithAuth(authUC))

	rec := doJSON(t, srv, http.MethodGet, "/api/risks", nil)
	gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope)).Required()
	gt.Bool(t, envelope.Success).False()
	gt.Value(t, envelope.Error).Equal("Unauthorized")
}

func TestServer_RiskLifecycle(t *testing.T) {
	srv := setupServer(t)

	t.Run("create assigns sequential IDs and derives the rating", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/risks", map[string]any{
			"title":             "Phishing against finance team",
			"owner":             "CISO",
			"confidentiality":   true,
			"likelihoodRating":  "Likely",
			"consequenceRating": "Major",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var risk struct {
			ID         string `json:"id"`
			RiskRating string `json:"riskRating"`
			Phase      string `json:"phase"`
		}
		decodeData(t, rec, &risk)
		gt.Value(t, risk.ID).Equal("RISK-1")
		gt.Value(t, risk.RiskRating).Equal("Extreme")
		gt.Value(t, risk.Phase).Equal("Draft")
	})

	t.Run("next-id reflects existing risks", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/risks/next-id", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var data struct {
			RiskID string `json:"riskId"`
		}
		decodeData(t, rec, &data)
		gt.Value(t, data.RiskID).Equal("RISK-2")
	})

	t.Run("missing CIA impact is a 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/risks", map[string]any{
			"title": "No impact selected",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed risk ID is a 400 with the fixed message", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/risks/not-a-risk", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		var envelope struct {
			Error string `json:"error"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope)).Required()
		gt.String(t, envelope.Error).Contains("Invalid risk ID format. Expected format: RISK-XXX")
	})

	t.Run("lower-case risk ID is canonicalized", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/risks/risk-1", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var detail struct {
			Risk struct {
				ID string `json:"id"`
			} `json:"risk"`
		}
		decodeData(t, rec, &detail)
		gt.Value(t, detail.Risk.ID).Equal("RISK-1")
	})

	t.Run("unknown risk is a 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/risks/RISK-999", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("update reports asset selection changes", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/risks/RISK-1", map[string]any{
			"title":               "Phishing against finance team",
			"owner":               "CISO",
			"confidentiality":     true,
			"likelihoodRating":    "Likely",
			"consequenceRating":   "Major",
			"informationAssetIds": []string{"asset-1"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var result struct {
			AssetSelectionChanged bool `json:"assetSelectionChanged"`
		}
		decodeData(t, rec, &result)
		gt.Bool(t, result.AssetSelectionChanged).True()
	})
}

func TestServer_TreatmentFlow(t *testing.T) {
	srv := setupServer(t)
	riskID := createRiskViaAPI(t, srv)

	t.Run("create under risk", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/risks/"+riskID+"/treatments", map[string]any{
			"title":   "Apply vendor patch",
			"owner":   "Platform",
			"dueDate": "2026-10-31",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var treatment struct {
			ID     int64  `json:"id"`
			RiskID string `json:"riskId"`
		}
		decodeData(t, rec, &treatment)
		gt.Value(t, treatment.RiskID).Equal(riskID)
		gt.Number(t, treatment.ID).Equal(int64(1))
	})

	t.Run("list by risk requires a valid riskId", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/treatments?riskId=bogus", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		rec = doJSON(t, srv, http.MethodGet, "/api/treatments?riskId="+riskID, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var treatments []struct {
			ID int64 `json:"id"`
		}
		decodeData(t, rec, &treatments)
		gt.Array(t, treatments).Length(1)
	})

	t.Run("extend accepts dd/mm/yyyy dates", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/treatments/1/extend", map[string]any{
			"newDueDate": "31/12/2026",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var treatment struct {
			ExtensionCount int `json:"extensionCount"`
		}
		decodeData(t, rec, &treatment)
		gt.Number(t, treatment.ExtensionCount).Equal(1)
	})

	t.Run("complete then approve closes the treatment", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/treatments/1/complete", map[string]any{})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodPost, "/api/treatments/1/closure", map[string]any{
			"approve": true,
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var treatment struct {
			ClosureApproval string `json:"closureApproval"`
		}
		decodeData(t, rec, &treatment)
		gt.Value(t, treatment.ClosureApproval).Equal("Approved")
	})

	t.Run("extension after approved closure is a 409", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/treatments/1/extend", map[string]any{
			"newDueDate": "2027-06-30",
		})
		gt.Number(t, rec.Code).Equal(http.StatusConflict)
	})
}

func TestServer_WorkshopAgenda(t *testing.T) {
	srv := setupServer(t)
	riskID := createRiskViaAPI(t, srv)

	// one open treatment, one closed
	rec := doJSON(t, srv, http.MethodPost, "/api/risks/"+riskID+"/treatments", map[string]any{
		"title": "Open treatment",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodPost, "/api/risks/"+riskID+"/treatments", map[string]any{
		"title": "Closed treatment",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)
	rec = doJSON(t, srv, http.MethodPost, "/api/treatments/2/complete", map[string]any{})
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	rec = doJSON(t, srv, http.MethodPost, "/api/treatments/2/closure", map[string]any{"approve": true})
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	rec = doJSON(t, srv, http.MethodPost, "/api/workshops", map[string]any{
		"scheduledAt": "2026-09-15",
		"facilitator": "Risk Manager",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var workshop struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &workshop)
	gt.Value(t, workshop.Status).Equal("Pending Agenda")

	t.Run("open treatment is accepted", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/workshops/1/agenda", map[string]any{
			"category":           "extensions",
			"riskId":             riskID,
			"selectedTreatments": []int64{1},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var ws struct {
			Extensions []struct {
				RiskID string `json:"riskId"`
			} `json:"extensions"`
		}
		decodeData(t, rec, &ws)
		gt.Array(t, ws.Extensions).Length(1)
	})

	t.Run("approved treatment is a 409", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/workshops/1/agenda", map[string]any{
			"category":           "closure",
			"riskId":             riskID,
			"selectedTreatments": []int64{2},
		})
		gt.Number(t, rec.Code).Equal(http.StatusConflict)
	})

	t.Run("invalid category is a 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/workshops/1/agenda", map[string]any{
			"category": "retrospective",
			"riskId":   riskID,
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("record outcome then remove item", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/workshops/1/minutes/extensions/0", map[string]any{
			"actionsTaken": "Reviewed latest patch status",
			"outcome":      "Extension approved to Q1",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var ws struct {
			Extensions []struct {
				Outcome string `json:"outcome"`
			} `json:"extensions"`
		}
		decodeData(t, rec, &ws)
		gt.Value(t, ws.Extensions[0].Outcome).Equal("Extension approved to Q1")

		rec = doJSON(t, srv, http.MethodDelete, "/api/workshops/1/agenda/extensions/0", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("status update", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/workshops/1/status", map[string]any{
			"status": "Finalising Meeting Minutes",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var ws struct {
			Status string `json:"status"`
		}
		decodeData(t, rec, &ws)
		gt.Value(t, ws.Status).Equal("Finalising Meeting Minutes")
	})
}

func TestServer_SoA(t *testing.T) {
	srv := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/compliance/soa/migrate", map[string]any{
		"controls": []*model.LegacyControlDocument{
			{
				ID:              "A.5.7",
				Title:           "Threat intelligence",
				ControlSetID:    "A.5",
				ControlSetTitle: "Organizational controls",
				Status:          "Planned",
				Applicability:   "Applicable",
				Justification:   json.RawMessage(`"Best Practice"`),
			},
		},
	})
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var migrateResult struct {
		Migrated int `json:"migrated"`
	}
	decodeData(t, rec, &migrateResult)
	gt.Number(t, migrateResult.Migrated).Equal(1)

	t.Run("grouped listing", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/compliance/soa", nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var groups []struct {
			SetID    string `json:"setId"`
			Controls []struct {
				ID            string `json:"id"`
				ControlStatus string `json:"controlStatus"`
			} `json:"controls"`
		}
		decodeData(t, rec, &groups)
		gt.Array(t, groups).Length(1)
		gt.Value(t, groups[0].SetID).Equal("A.5")
		gt.Value(t, groups[0].Controls[0].ControlStatus).Equal("Planning Implementation")
	})

	t.Run("update rejects dangling related risk", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/compliance/soa/A.5.7", map[string]any{
			"controlStatus":        "Implemented",
			"controlApplicability": "Applicable",
			"justification":        []string{"Best Practice"},
			"relatedRisks":         []string{"RISK-12"},
		})
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("update with existing risk", func(t *testing.T) {
		riskID := createRiskViaAPI(t, srv)

		rec := doJSON(t, srv, http.MethodPut, "/api/compliance/soa/A.5.7", map[string]any{
			"controlStatus":        "Implemented",
			"controlApplicability": "Applicable",
			"justification":        []string{"Best Practice", "Legal Requirement"},
			"relatedRisks":         []string{riskID},
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var control struct {
			ControlStatus string   `json:"controlStatus"`
			RelatedRisks  []string `json:"relatedRisks"`
		}
		decodeData(t, rec, &control)
		gt.Value(t, control.ControlStatus).Equal("Implemented")
		gt.Array(t, control.RelatedRisks).Length(1)
	})
}

func TestServer_InformationAssets(t *testing.T) {
	srv := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/information-assets", map[string]any{
		"name":           "Customer database",
		"owner":          "Data Platform",
		"classification": "Confidential",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var asset struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &asset)
	gt.Value(t, asset.ID).Equal("asset-1")

	rec = doJSON(t, srv, http.MethodGet, "/api/information-assets", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var assets []struct {
		Name string `json:"name"`
	}
	decodeData(t, rec, &assets)
	gt.Array(t, assets).Length(1)
	gt.Value(t, assets[0].Name).Equal("Customer database")
}

func TestServer_MitreTechniques(t *testing.T) {
	srv := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/mitre-attack/techniques", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	// data is the technique array itself; the feed metadata sits beside it
	// at the top level.
	var resp struct {
		Success bool   `json:"success"`
		Source  string `json:"source"`
		Count   int    `json:"count"`
		Data    []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
		LastUpdated time.Time `json:"lastUpdated"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Bool(t, resp.Success).True()
	gt.Value(t, resp.Source).Equal(mitre.SourceRemote)
	gt.Number(t, resp.Count).Equal(15)
	gt.Array(t, resp.Data).Length(15)
	gt.String(t, resp.Data[0].ID).NotEqual("")
	gt.Bool(t, resp.LastUpdated.IsZero()).False()

	var keys map[string]json.RawMessage
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys)).Required()
	for _, k := range []string{"success", "data", "count", "source", "lastUpdated"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("top-level %q missing from response", k)
		}
	}
}

func TestServer_AuthMe(t *testing.T) {
	srv := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var me struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	decodeData(t, rec, &me)
	gt.Value(t, me.Sub).Equal("test-sub")
	gt.Value(t, me.Email).Equal("test@example.com")
}
