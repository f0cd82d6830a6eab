package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints (if auth is configured)
		if s.authUC != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Get("/login", authLoginHandler(s.authUC))
				r.Get("/callback", authCallbackHandler(s.authUC))
				r.Post("/logout", authLogoutHandler(s.authUC))
				r.Get("/me", authMeHandler(s.authUC))
			})
		}

		// Protected API surface
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))

			r.Route("/risks", func(r chi.Router) {
				r.Get("/", listRisksHandler(uc.Risk))
				r.Post("/", createRiskHandler(uc.Risk))
				r.Get("/next-id", nextRiskIDHandler(uc.Risk))
				r.Get("/{riskID}", getRiskDetailHandler(uc.Risk))
				r.Put("/{riskID}", updateRiskHandler(uc.Risk))
				r.Post("/{riskID}/treatments", createTreatmentHandler(uc.Treatment))
			})

			r.Route("/treatments", func(r chi.Router) {
				r.Get("/", listTreatmentsHandler(uc.Treatment))
				r.Post("/{treatmentID}/extend", extendTreatmentHandler(uc.Treatment))
				r.Post("/{treatmentID}/complete", completeTreatmentHandler(uc.Treatment))
				r.Post("/{treatmentID}/closure", reviewClosureHandler(uc.Treatment))
			})

			r.Route("/workshops", func(r chi.Router) {
				r.Get("/", listWorkshopsHandler(uc.Workshop))
				r.Post("/", createWorkshopHandler(uc.Workshop))
				r.Get("/{workshopID}", getWorkshopHandler(uc.Workshop))
				r.Put("/{workshopID}", updateWorkshopHandler(uc.Workshop))
				r.Put("/{workshopID}/status", updateWorkshopStatusHandler(uc.Workshop))
				r.Post("/{workshopID}/agenda", addAgendaItemHandler(uc.Workshop))
				r.Delete("/{workshopID}/agenda/{category}/{index}", removeAgendaItemHandler(uc.Workshop))
				r.Put("/{workshopID}/minutes/{category}/{index}", recordMinuteOutcomeHandler(uc.Workshop))
			})

			r.Route("/information-assets", func(r chi.Router) {
				r.Get("/", listAssetsHandler(uc.Asset))
				r.Post("/", createAssetHandler(uc.Asset))
				r.Get("/{assetID}", getAssetHandler(uc.Asset))
			})

			r.Route("/compliance/soa", func(r chi.Router) {
				r.Get("/", listControlsHandler(uc.SoA))
				r.Put("/{controlID}", updateControlHandler(uc.SoA))
				r.Post("/migrate", migrateControlsHandler(uc.SoA))
			})

			r.Get("/mitre-attack/techniques", mitreTechniquesHandler(uc.Mitre))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
