package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/mind-engage/mindengage-scoring/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scoring/internal/exam"
	"github.com/mind-engage/mindengage-scoring/internal/grading"
	"github.com/mind-engage/mindengage-scoring/internal/rbac"
)

type Deps struct {
	Auth        *authmw.AuthService
	Login       authmw.LoginConfig
	LocalAuth   bool // mount POST /auth/login
	Service     *exam.Service
	Engine      *grading.Engine
	DB          Pinger
	CORSOrigins []string
	RequestLog  bool
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if d.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.LocalAuth {
		r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Login))
	}

	store := d.Service.Store()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("tests:create")).
			Post("/tests", UploadTestHandler(store))
		pr.With(rbac.Require("tests:view")).
			Get("/tests/{testID}", GetTestHandler(store))
		pr.With(rbac.Require("tests:regrade")).
			Post("/tests/{testID}/regrade", RegradeTestHandler(d.Service))

		pr.With(rbac.Require("session:create")).
			Post("/sessions", CreateSessionHandler(store))
		pr.With(rbac.Require("session:save")).
			Post("/sessions/{sessionID}/answers", SaveAnswersHandler(store))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/submit", SubmitSessionHandler(d.Service))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}", GetSessionHandler(store))

		pr.With(rbac.Require("bands:view")).
			Get("/bands", BandHandler(d.Engine))
	})

	r.Get("/healthz", Health)
	if d.DB != nil {
		r.Get("/readyz", ReadyHandler(d.DB))
	} else {
		r.Get("/readyz", Health)
	}
	return r
}
