package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/reviews"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

// ListReviews returns the reviews visible to the actor.
func ListReviews(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		var result []types.Review
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

type createReviewRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"required"`
}

// CreateReview files a review against a completed appointment.
func CreateReview(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), reviews.CreateInput{
			AppointmentID: req.AppointmentID,
			Rating:        req.Rating,
			Comment:       req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ToggleReviewAddressed flips the addressed marker on a review.
func ToggleReviewAddressed(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return reviewToggleHandler(logg, svc.ToggleAddressed)
}

// ToggleReviewAgentPin flips the agent-side pin on a review.
func ToggleReviewAgentPin(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return reviewToggleHandler(logg, svc.TogglePinAgent)
}

// ToggleReviewAdminPin flips the admin-side pin on a review.
func ToggleReviewAdminPin(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return reviewToggleHandler(logg, svc.TogglePinAdmin)
}

func reviewToggleHandler(logg *logger.Logger, apply func(ctx context.Context, actor types.Actor, id string) (*types.Review, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := apply(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
