package http

import (
	"net/http"
	"strings"
	"time"

	"cropdesk/internal/advisory"
	"cropdesk/internal/auth"
	"cropdesk/internal/config"
	"cropdesk/internal/crop"
	"cropdesk/internal/http/handler"
	mw "cropdesk/internal/http/middleware"
	"cropdesk/internal/http/respond"
	"cropdesk/internal/jobs"
	"cropdesk/internal/kv"
	"cropdesk/internal/profile"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	store := kv.NewGormStore(db)
	authSvc := &auth.Service{DB: db, JWT: jwtSvc}
	profiles := &profile.Store{KV: store}

	routes := func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]any{
				"status":    "healthy",
				"timestamp": time.Now().UTC(),
			})
		})

		ah := &handler.AuthHandler{Auth: authSvc, Profiles: profiles}
		r.Post("/signup", ah.Signup)
		r.Post("/login", ah.Login)

		ph := &handler.ProfileHandler{Auth: authSvc, Profiles: profiles}
		r.With(auth.RequireAuth(authSvc)).Get("/profile", ph.Get)

		cropH := &handler.CropHandler{Repo: &crop.Repository{
			Store:   store,
			Repairs: &jobs.Repo{DB: db},
		}}
		r.Route("/crops", func(r chi.Router) {
			r.With(auth.OptionalAuth(authSvc)).Get("/", cropH.List)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(authSvc))

				r.Post("/", cropH.Create)
				r.Get("/export", cropH.Export)
				r.Put("/{cropId}", cropH.Update)
				r.Delete("/{cropId}", cropH.Delete)
			})
		})

		advH := &handler.AdvisoryHandler{Svc: &advisory.Service{
			Store:     store,
			Generator: advisory.NewStatic(),
		}}
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(authSvc))

			r.Post("/recommendations", advH.Recommendations)
			r.Post("/consultation", advH.Consultation)
		})
	}

	prefix := strings.TrimRight(cfg.APIPrefix, "/")
	if prefix == "" {
		routes(r)
		return r
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	r.Route(prefix, routes)
	return r
}
