package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
)

// ListProperties returns every listing.
func ListProperties(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// GetProperty returns one listing by id.
func GetProperty(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, property)
	}
}

type propertyRequest struct {
	Title       string  `json:"title" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Bedrooms    int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int     `json:"bathrooms" validate:"gte=0"`
	AreaSqft    int     `json:"areaSqft" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,max=600"`
	Status      string  `json:"status" validate:"omitempty,oneof=available unavailable"`
}

func (req propertyRequest) toInput() properties.Input {
	return properties.Input{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqft:    req.AreaSqft,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      enums.PropertyStatus(req.Status),
	}
}

// CreateProperty adds a listing owned by the acting agent.
func CreateProperty(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req propertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UpdateProperty edits a listing.
func UpdateProperty(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req propertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteProperty removes a listing and its linked appointments.
// ListMyProperties returns only the acting agent's listings.
func ListMyProperties(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.ActorFromContext(r.Context())
		responses.WriteSuccess(w, svc.ListByAgent(r.Context(), actor.Username))
	}
}

type propertyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available unavailable"`
}

// SetPropertyStatus flips a listing between available and unavailable.
func SetPropertyStatus(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req propertyStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePropertyStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status must be available or unavailable"))
			return
		}
		if err := svc.SetStatus(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func DeleteProperty(svc *properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
