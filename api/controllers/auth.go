package controllers

import (
	"net/http"
	"time"

	"github.com/casalink-ph/casalink-backend/api/responses"
	"github.com/casalink-ph/casalink-backend/api/validators"
	"github.com/casalink-ph/casalink-backend/internal/auth"
	pkgAuth "github.com/casalink-ph/casalink-backend/pkg/auth"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  types.Principal `json:"user"`
}

// AuthLogin verifies credentials and returns a bearer token alongside the
// signed-in principal.
func AuthLogin(svc *auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principal, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
			Username: principal.Username,
			Role:     principal.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{Token: token, User: principal})
	}
}

// AuthLogout clears the session cell.
func AuthLogout(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,max=400"`
}

// AuthRegister self-registers a customer account.
func AuthRegister(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Register(r.Context(), auth.RegisterInput{
			Username: req.Username,
			Password: req.Password,
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

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AuthResetPassword replaces the password of the account matching both
// username and email.
func AuthResetPassword(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Username, req.Email, req.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password updated"})
	}
}
