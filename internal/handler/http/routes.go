package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const apiPrefix = "/api/v1"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging)
	router.Use(middleware.RealIP, middleware.Recoverer)
	if h.server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.server.RequestTimeout))
	}
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(h.withCORS, h.withRateLimit)

	router.Get("/", h.welcome)

	router.Route(apiPrefix, func(r chi.Router) {
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			// routes without authorization
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/forgotpassword", h.forgotPassword)
			r.Put("/resetpassword/{resettoken}", h.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Get("/logout", h.logout)
				r.Get("/me", h.me)
				r.Put("/updatedetails", h.updateDetails)
				r.Put("/updatepassword", h.updatePassword)
			})
		})

		r.Route("/cotisations", func(r chi.Router) {
			r.Use(h.authenticate)

			r.Post("/", h.createCotisation)
			r.Get("/member/{memberID}", h.listMemberCotisations)
			r.Get("/{id}", h.getCotisation)
			r.Put("/{id}", h.updateCotisation)
			r.Delete("/{id}", h.deleteCotisation)

			r.Group(func(r chi.Router) {
				r.Use(h.authorize(adminRoles...))
				r.Get("/", h.listCotisations)
				r.Patch("/{id}/status", h.setCotisationStatus)
				r.Get("/period/{month}/{year}", h.listPeriodCotisations)
				r.Post("/report", h.cotisationReport)
			})
		})

		r.Route("/groups", func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/", h.listGroups)
			r.Get("/member/{memberID}", h.listMemberGroups)
			r.Get("/{id}", h.getGroup)
			r.Delete("/{id}/members/{userID}", h.removeGroupMember)

			r.Group(func(r chi.Router) {
				r.Use(h.authorize(adminRoles...))
				r.Post("/", h.createGroup)
				r.Put("/{id}", h.updateGroup)
				r.Delete("/{id}", h.deleteGroup)
				r.Put("/{id}/members/{userID}", h.addGroupMember)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/{id}", h.getTransaction)
			r.Get("/member/{memberID}", h.listMemberTransactions)
			r.Get("/group/{groupID}", h.listGroupTransactions)

			r.Group(func(r chi.Router) {
				r.Use(h.authorize(adminRoles...))
				r.Get("/", h.listTransactions)
				r.Post("/", h.createTransaction)
				r.Put("/{id}", h.updateTransaction)
				r.Delete("/{id}", h.deleteTransaction)
				r.Post("/{id}/attachment", h.uploadAttachment)
				r.Post("/report", h.transactionReport)
			})
		})
	})

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return router
}
