package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/controllers"
	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/internal/appointments"
	"github.com/casalink-ph/casalink-backend/internal/auth"
	"github.com/casalink-ph/casalink-backend/internal/notifications"
	"github.com/casalink-ph/casalink-backend/internal/officemeets"
	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/internal/reviews"
	"github.com/casalink-ph/casalink-backend/internal/trips"
	"github.com/casalink-ph/casalink-backend/internal/users"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/db"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	authService *auth.Service,
	userService *users.Service,
	propertyService *properties.Service,
	appointmentService *appointments.Service,
	officeMeetService *officemeets.Service,
	tripService *trips.Service,
	reviewService *reviews.Service,
	notificationService *notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, cfg.JWT, logg))
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/auth/logout", controllers.AuthLogout(authService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Put("/me", controllers.UpdateProfile(userService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
				r.Get("/", controllers.ListUsers(userService, logg))
				r.Post("/", controllers.CreateUser(userService, logg))
				r.Delete("/{username}", controllers.DeleteUser(userService, logg))
			})
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", controllers.ListProperties(propertyService, logg))
			r.Get("/{id}", controllers.GetProperty(propertyService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent))
				r.Get("/mine", controllers.ListMyProperties(propertyService, logg))
				r.Post("/", controllers.CreateProperty(propertyService, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleAdmin))
				r.Put("/{id}", controllers.UpdateProperty(propertyService, logg))
				r.Post("/{id}/status", controllers.SetPropertyStatus(propertyService, logg))
				r.Delete("/{id}", controllers.DeleteProperty(propertyService, logg))
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", controllers.ListAppointments(appointmentService, logg))

			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).
				Post("/", controllers.BookAppointment(appointmentService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent))
				r.Post("/{id}/approve", controllers.ApproveAppointment(appointmentService, logg))
				r.Post("/{id}/decline", controllers.DeclineAppointment(appointmentService, logg))
				r.Post("/{id}/reschedule", controllers.RescheduleAppointment(appointmentService, logg))
				r.Post("/{id}/done", controllers.CompleteAppointment(appointmentService, logg))
			})
			// cancellation is shared: agents cancel anything on their
			// listings, customers cancel their own pending requests
			r.With(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleCustomer)).
				Post("/{id}/cancel", controllers.CancelAppointment(appointmentService, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleAdmin)).
				Delete("/{id}", controllers.RemoveAppointment(appointmentService, logg))
		})

		r.Route("/office-meets", func(r chi.Router) {
			r.Get("/", controllers.ListOfficeMeets(officeMeetService, logg))

			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).
				Post("/", controllers.RequestOfficeMeet(officeMeetService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent))
				r.Post("/{id}/approve", controllers.ApproveOfficeMeet(officeMeetService, logg))
				r.Post("/{id}/decline", controllers.DeclineOfficeMeet(officeMeetService, logg))
				r.Post("/{id}/done", controllers.CompleteOfficeMeet(officeMeetService, logg))
			})
			r.With(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleAdmin)).
				Delete("/{id}", controllers.RemoveOfficeMeet(officeMeetService, logg))
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", controllers.ListTrips(tripService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent))
				r.Post("/", controllers.PlanTrip(tripService, logg))
				r.Post("/{id}/start", controllers.StartTrip(tripService, logg))
				r.Post("/{id}/complete", controllers.CompleteTrip(tripService, logg))
				r.Post("/{id}/cancel", controllers.CancelTrip(tripService, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleCustomer))
				r.Post("/{id}/join", controllers.JoinTrip(tripService, logg))
				r.Post("/{id}/leave", controllers.LeaveTrip(tripService, logg))
			})
			r.With(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleAdmin)).
				Delete("/{id}", controllers.RemoveTrip(tripService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ListReviews(reviewService, logg))

			r.With(middleware.RequireRole(logg, enums.RoleCustomer)).
				Post("/", controllers.CreateReview(reviewService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAgent, enums.RoleAdmin))
				r.Post("/{id}/toggle-addressed", controllers.ToggleReviewAddressed(reviewService, logg))
			})
			r.With(middleware.RequireRole(logg, enums.RoleAgent)).
				Post("/{id}/toggle-pin-agent", controllers.ToggleReviewAgentPin(reviewService, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdmin)).
				Post("/{id}/toggle-pin-admin", controllers.ToggleReviewAdminPin(reviewService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationService, logg))
			r.Post("/{id}/read", controllers.MarkNotificationRead(notificationService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationService, logg))
		})
	})

	return r
}
