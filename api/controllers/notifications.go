package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/notifications"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
)

// ListNotifications returns the actor's notifications, newest first. An
// optional limit query parameter caps the page size.
func ListNotifications(svc *notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		result := svc.ListFor(r.Context(), actor.Username)
		if len(result) > limit {
			result = result[:limit]
		}
		responses.WriteSuccess(w, result)
	}
}

// UnreadNotificationCount reports how many of the actor's notifications are
// still unread.
func UnreadNotificationCount(svc *notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		count := svc.UnreadCountFor(r.Context(), actor.Username)
		responses.WriteSuccess(w, map[string]int{"unread": count})
	}
}

// MarkNotificationRead stamps one of the actor's notifications as read.
func MarkNotificationRead(svc *notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		if err := svc.MarkRead(r.Context(), actor.Username, chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// MarkAllNotificationsRead stamps every unread notification for the actor.
func MarkAllNotificationsRead(svc *notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		updated, err := svc.MarkAllRead(r.Context(), actor.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": updated})
	}
}
