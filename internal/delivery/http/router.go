package http

import (
	"net/http"

	"go-clinical-records/internal/delivery/http/handler"
	"go-clinical-records/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	providerHandler     *handler.ProviderHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	rescheduleHandler   *handler.RescheduleHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	providerHandler *handler.ProviderHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	rescheduleHandler *handler.RescheduleHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		providerHandler:     providerHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		rescheduleHandler:   rescheduleHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/provider", r.authHandler.RegisterProvider).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Provider directory (protected, any role)
	providers := api.PathPrefix("/providers").Subrouter()
	providers.Use(r.authMiddleware.Authenticate)
	providers.HandleFunc("", r.providerHandler.ListProviders).Methods(http.MethodGet)

	// Provider self-service routes must register before the {id} routes so
	// mux does not try to parse "me" as a UUID.
	providerSelf := providers.PathPrefix("/me").Subrouter()
	providerSelf.Use(middleware.RequireProvider)
	providerSelf.HandleFunc("", r.providerHandler.UpdateMyProfile).Methods(http.MethodPut)
	providerSelf.HandleFunc("/schedule", r.availabilityHandler.UpsertWeeklySchedule).Methods(http.MethodPut)
	providerSelf.HandleFunc("/schedule/day-reschedule", r.rescheduleHandler.RescheduleDay).Methods(http.MethodPost)

	providers.HandleFunc("/{id}", r.providerHandler.GetProvider).Methods(http.MethodGet)
	providers.HandleFunc("/{id}/schedule", r.availabilityHandler.GetWeeklySchedule).Methods(http.MethodGet)
	providers.HandleFunc("/{id}/availability", r.availabilityHandler.CheckSlot).Methods(http.MethodGet)

	// Appointment routes (protected)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Handle("", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	appointments.Handle("/my", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.GetMyAppointments))).Methods(http.MethodGet)
	appointments.Handle("/assigned", middleware.RequireProvider(http.HandlerFunc(r.appointmentHandler.GetAssignedAppointments))).Methods(http.MethodGet)
	appointments.Handle("/{id}/decision", middleware.RequireProvider(http.HandlerFunc(r.appointmentHandler.DecideAppointment))).Methods(http.MethodPatch)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/reschedules", r.rescheduleHandler.ProposeReschedule).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/reschedules", r.rescheduleHandler.ListReschedules).Methods(http.MethodGet)

	// Reschedule resolution (protected)
	reschedules := api.PathPrefix("/reschedules").Subrouter()
	reschedules.Use(r.authMiddleware.Authenticate)
	reschedules.HandleFunc("/{id}", r.rescheduleHandler.ResolveReschedule).Methods(http.MethodPatch)

	// Audit trail (admin only)
	auditLogs := api.PathPrefix("/audit-logs").Subrouter()
	auditLogs.Use(r.authMiddleware.Authenticate)
	auditLogs.Use(middleware.RequireAdmin)
	auditLogs.HandleFunc("", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)
	auditLogs.HandleFunc("/{id}", r.auditLogHandler.GetAuditLogByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
