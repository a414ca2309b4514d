package http

import (
	"net/http"

	"medbridge-api/internal/delivery/http/handler"
	"medbridge-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	profileHandler      *handler.UserProfileHandler
	doctorHandler       *handler.DoctorHandler
	availabilityHandler *handler.DoctorAvailabilityHandler
	consultationHandler *handler.ConsultationHandler
	triageHandler       *handler.TriageHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	metricsHandler      http.Handler
}

type RouterParams struct {
	AuthHandler         *handler.AuthHandler
	ProfileHandler      *handler.UserProfileHandler
	DoctorHandler       *handler.DoctorHandler
	AvailabilityHandler *handler.DoctorAvailabilityHandler
	ConsultationHandler *handler.ConsultationHandler
	TriageHandler       *handler.TriageHandler
	AuditLogHandler     *handler.AuditLogHandler
	AuthMiddleware      *middleware.AuthMiddleware
	CORSMiddleware      *middleware.CORSMiddleware
	LoggingMiddleware   *middleware.LoggingMiddleware
	MetricsMiddleware   *middleware.MetricsMiddleware
	MetricsHandler      http.Handler
}

func NewRouter(p RouterParams) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         p.AuthHandler,
		profileHandler:      p.ProfileHandler,
		doctorHandler:       p.DoctorHandler,
		availabilityHandler: p.AvailabilityHandler,
		consultationHandler: p.ConsultationHandler,
		triageHandler:       p.TriageHandler,
		auditLogHandler:     p.AuditLogHandler,
		authMiddleware:      p.AuthMiddleware,
		corsMiddleware:      p.CORSMiddleware,
		loggingMiddleware:   p.LoggingMiddleware,
		metricsMiddleware:   p.MetricsMiddleware,
		metricsHandler:      p.MetricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Catalogue and triage (public)
	api.HandleFunc("/triage", r.triageHandler.Suggest).Methods(http.MethodPost)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/reviews", r.doctorHandler.GetDoctorReviews).Methods(http.MethodGet)
	api.HandleFunc("/doctor-availability", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Profiles (owner or admin)
	profiles := api.PathPrefix("/profiles").Subrouter()
	profiles.Use(r.authMiddleware.Authenticate)
	profiles.HandleFunc("", r.profileHandler.GetProfiles).Methods(http.MethodGet)
	profiles.HandleFunc("", r.profileHandler.CreateProfile).Methods(http.MethodPost)
	profiles.HandleFunc("/{id}", r.profileHandler.GetProfile).Methods(http.MethodGet)
	profiles.HandleFunc("/{id}", r.profileHandler.UpdateProfile).Methods(http.MethodPut)
	profiles.HandleFunc("/{id}", r.profileHandler.DeleteProfile).Methods(http.MethodDelete)

	// Consultations (owner or admin)
	consultations := api.PathPrefix("/consultations").Subrouter()
	consultations.Use(r.authMiddleware.Authenticate)
	consultations.HandleFunc("", r.consultationHandler.GetConsultations).Methods(http.MethodGet)
	consultations.HandleFunc("", r.consultationHandler.CreateConsultation).Methods(http.MethodPost)
	consultations.HandleFunc("/{id}", r.consultationHandler.GetConsultation).Methods(http.MethodGet)
	consultations.HandleFunc("/{id}", r.consultationHandler.UpdateConsultation).Methods(http.MethodPut)
	consultations.HandleFunc("/{id}/status", r.consultationHandler.UpdateStatus).Methods(http.MethodPut)
	consultations.HandleFunc("/{id}/review", r.consultationHandler.CreateReview).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	admin.HandleFunc("/availability", r.availabilityHandler.CreateAvailability).Methods(http.MethodPost)
	admin.HandleFunc("/availability/{id}", r.availabilityHandler.DeleteAvailability).Methods(http.MethodDelete)

	admin.HandleFunc("/consultations/{id}", r.consultationHandler.DeleteConsultation).Methods(http.MethodDelete)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Preflight for any path; CORSMiddleware answers before this handler runs.
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Outermost first: request id, access log, metrics, CORS
	r.router.Use(middleware.RequestID)
	if r.loggingMiddleware != nil {
		r.router.Use(r.loggingMiddleware.Handle)
	}
	if r.metricsMiddleware != nil {
		r.router.Use(r.metricsMiddleware.Handle)
	}
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
