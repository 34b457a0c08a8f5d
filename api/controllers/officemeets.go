package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/officemeets"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

// ListOfficeMeets returns the office meets visible to the actor. Agents see
// the shared queue of unassigned and own-claimed requests.
func ListOfficeMeets(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		var result []types.OfficeMeet
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

type requestOfficeMeetRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
	Mode     string `json:"mode" validate:"omitempty,oneof=office virtual"`
}

// RequestOfficeMeet files a new meeting request for the acting customer.
func RequestOfficeMeet(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requestOfficeMeetRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, _ := enums.ParseMeetMode(req.Mode)
		created, err := svc.Request(r.Context(), middleware.ActorFromContext(r.Context()), officemeets.RequestInput{
			FullName: req.FullName,
			Email:    req.Email,
			Date:     req.Date,
			Time:     req.Time,
			Reason:   req.Reason,
			Mode:     mode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ApproveOfficeMeet claims a pending request for the acting agent.
func ApproveOfficeMeet(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return meetTransitionHandler(logg, svc.Approve)
}

// DeclineOfficeMeet refuses a pending request.
func DeclineOfficeMeet(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return meetTransitionHandler(logg, svc.Decline)
}

// CompleteOfficeMeet marks an approved meet as held.
func CompleteOfficeMeet(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return meetTransitionHandler(logg, svc.MarkDone)
}

// RemoveOfficeMeet deletes a finished or declined meet record.
func RemoveOfficeMeet(svc *officemeets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func meetTransitionHandler(logg *logger.Logger, apply func(ctx context.Context, actor types.Actor, id string) (*types.OfficeMeet, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := apply(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
