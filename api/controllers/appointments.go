package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/appointments"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

// ListAppointments returns the appointments visible to the actor: admins
// see everything, agents their listings' bookings, customers their own.
func ListAppointments(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		var result []types.Appointment
		switch {
		case actor.IsAdmin():
			result = svc.List(r.Context())
		case actor.IsAgent():
			result = svc.ListForAgent(r.Context(), actor.Username)
		default:
			result = svc.ListForCustomer(r.Context(), actor.Username)
		}
		responses.WriteSuccess(w, result)
	}
}

type bookAppointmentRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`
}

// BookAppointment creates a pending viewing request.
func BookAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookAppointmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Book(r.Context(), middleware.ActorFromContext(r.Context()), appointments.BookInput{
			PropertyID: req.PropertyID,
			Date:       req.Date,
			Time:       req.Time,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ApproveAppointment confirms a pending or rescheduled appointment.
func ApproveAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Approve)
}

// DeclineAppointment refuses a pending appointment.
func DeclineAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Decline)
}

// CompleteAppointment marks an appointment done.
func CompleteAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.MarkDone)
}

// CancelAppointment calls an appointment off.
func CancelAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Cancel)
}

type rescheduleRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// RescheduleAppointment moves an appointment to a new slot.
func RescheduleAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rescheduleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Reschedule(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.Date, req.Time)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// RemoveAppointment hard-deletes a terminal appointment record.
func RemoveAppointment(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func transitionHandler(logg *logger.Logger, apply func(ctx context.Context, actor types.Actor, id string) (*types.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := apply(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
