package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mussa52/madalali-tz/api/middleware"
	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/api/validators"
	"github.com/mussa52/madalali-tz/internal/inquiries"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

func inquiryListFilter(r *http.Request) (inquiries.ListFilter, error) {
	var filter inquiries.ListFilter

	propertyID, err := validators.ParseQueryUUID(r, "property_id")
	if err != nil {
		return filter, err
	}
	filter.PropertyID = propertyID

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseInquiryStatus(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		filter.Status = status
	}

	return filter, nil
}

// InquiriesCreate opens an inquiry against an approved listing.
func InquiriesCreate(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		var body inquiries.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		inquiry, err := svc.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusCreated, "Inquiry sent successfully", inquiry)
	}
}

func InquiriesList(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		filter, err := inquiryListFilter(r)
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

func InquiriesGet(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "inquiryID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		inquiry, err := svc.Get(r.Context(), middleware.PrincipalFromContext(r.Context()), id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, inquiry)
	}
}

func InquiriesUpdateStatus(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "inquiryID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body inquiries.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		inquiry, err := svc.UpdateStatus(r.Context(), middleware.PrincipalFromContext(r.Context()), id, body.Status)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Inquiry status updated successfully", inquiry)
	}
}

func InquiriesDelete(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "inquiryID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), id); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Inquiry deleted successfully", nil)
	}
}

func InquiriesStatistics(svc inquiries.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
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
