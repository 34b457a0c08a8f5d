package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/trips"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

// ListTrips returns the trips visible to the actor.
func ListTrips(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		var result []types.Trip
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

type planTripRequest struct {
	Customer    string   `json:"customer" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	PropertyIDs []string `json:"propertyIds"`
	Notes       string   `json:"notes"`
}

// PlanTrip creates a multi-property tour owned by the acting agent.
func PlanTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planTripRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Plan(r.Context(), middleware.ActorFromContext(r.Context()), trips.PlanInput{
			Customer:    req.Customer,
			Date:        req.Date,
			Time:        req.Time,
			PropertyIDs: req.PropertyIDs,
			Notes:       req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// StartTrip moves a planned trip in progress.
func StartTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return tripTransitionHandler(logg, svc.Start)
}

// CompleteTrip finishes an in-progress trip.
func CompleteTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return tripTransitionHandler(logg, svc.Complete)
}

// CancelTrip calls off a planned trip.
func CancelTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return tripTransitionHandler(logg, svc.Cancel)
}

// JoinTrip adds the acting customer to a trip's attendee list.
func JoinTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return tripTransitionHandler(logg, svc.Join)
}

// LeaveTrip removes the acting customer from a trip's attendee list.
func LeaveTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return tripTransitionHandler(logg, svc.Leave)
}

// RemoveTrip deletes a trip record outright.
func RemoveTrip(svc *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func tripTransitionHandler(logg *logger.Logger, apply func(ctx context.Context, actor types.Actor, id string) (*types.Trip, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := apply(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
