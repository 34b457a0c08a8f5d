package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casalink-ph/casalink-backend/api/middleware"
	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/users"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
)

// ListUsers returns every account, credentials stripped. Admin only.
func ListUsers(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principals, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, principals)
	}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin agent customer"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty"`
	Email    string `json:"email" validate:"omitempty,email"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,max=400"`
}

// CreateUser provisions an account with an explicit role. Admin only.
func CreateUser(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), users.CreateInput{
			Username: req.Username,
			Password: req.Password,
			Role:     role,
			FullName: req.FullName,
			Phone:    req.Phone,
			Email:    req.Email,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created.Principal())
	}
}

type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,max=400"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateProfile edits the signed-in account's own profile fields.
func UpdateProfile(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principal, err := svc.UpdateProfile(r.Context(), middleware.ActorFromContext(r.Context()), users.UpdateProfileInput{
			FullName: req.FullName,
			Phone:    req.Phone,
			Email:    req.Email,
			PhotoURL: req.PhotoURL,
			Password: req.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, principal)
	}
}

// DeleteUser removes an account and cascades over everything it owns.
// Admin only.
func DeleteUser(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
