package controllers

import (
	"net/http"

	"github.com/mussa52/madalali-tz/api/middleware"
	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/api/validators"
	"github.com/mussa52/madalali-tz/internal/auth"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

// AuthRegister wires public sign-up into the HTTP layer.
func AuthRegister(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusCreated, "User registered successfully", result)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, result)
	}
}

func AuthProfile(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		user, err := svc.Profile(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, user)
	}
}

func AuthUpdateProfile(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), middleware.PrincipalFromContext(r.Context()), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Profile updated successfully", user)
	}
}

func AuthChangePassword(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), middleware.PrincipalFromContext(r.Context()), body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Password changed successfully", nil)
	}
}
