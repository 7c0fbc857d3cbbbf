package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mussa52/madalali-tz/api/middleware"
	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/api/validators"
	"github.com/mussa52/madalali-tz/internal/users"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

func userListFilter(r *http.Request) (users.ListFilter, error) {
	var filter users.ListFilter
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("role")); raw != "" {
		role, err := enums.ParseUserRole(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		filter.Role = role
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := enums.ParseUserStatus(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		filter.Status = status
	}

	return filter, nil
}

// UsersCreate provisions an account with an explicit role, admin included.
func UsersCreate(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var body users.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		user, err := svc.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusCreated, "User created successfully", user)
	}
}

func UsersList(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		filter, err := userListFilter(r)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		list, err := svc.List(r.Context(), middleware.PrincipalFromContext(r.Context()), filter)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, list)
	}
}

func UsersGet(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		user, err := svc.Get(r.Context(), middleware.PrincipalFromContext(r.Context()), id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, user)
	}
}

func UsersUpdate(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body users.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		user, err := svc.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), id, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "User updated successfully", user)
	}
}

func UsersDelete(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), id); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "User deleted successfully", nil)
	}
}

func UsersStatistics(svc users.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		stats, err := svc.Statistics(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, stats)
	}
}
