package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// NewRouter assembles the HTTP surface. Owner-scoped routes sit behind the
// JWT verifier when tokenAuth is non-nil; the explore surface is public
// either way. A nil tokenAuth is for embedders that wire their own session
// provider (e.g., tests with a static session).
func NewRouter(service simplelessons.Service, tokenAuth *jwtauth.JWTAuth) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if tokenAuth != nil {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
			}
			r.Mount("/lessons", NewLessonHandler(service).Routes())
			r.Mount("/modules", NewModuleHandler(service).Routes())
		})

		r.Mount("/explore", NewExploreHandler(service).Routes())
	})

	return r
}
