package controllers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mussa52/madalali-tz/api/middleware"
	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/api/validators"
	"github.com/mussa52/madalali-tz/internal/properties"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
	"github.com/mussa52/madalali-tz/pkg/storage"
)

const photoFormField = "property_photo"

type propertyStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func propertyListFilter(r *http.Request) (properties.ListFilter, error) {
	q := r.URL.Query()

	filter := properties.ListFilter{
		Status:       strings.TrimSpace(q.Get("status")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
		ListingType:  strings.TrimSpace(q.Get("listing_type")),
		City:         strings.TrimSpace(q.Get("city")),
		Location:     strings.TrimSpace(q.Get("location")),
		Search:       strings.TrimSpace(q.Get("search")),
	}

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return filter, err
	}
	filter.MaxPrice = maxPrice

	minBedrooms, err := validators.ParseQueryIntPtr(r, "min_bedrooms", 0, 50)
	if err != nil {
		return filter, err
	}
	filter.MinBedrooms = minBedrooms

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit

	return filter, nil
}

// PropertiesList serves the browse endpoint. Visibility is derived from the
// caller's role inside the service.
func PropertiesList(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		filter, err := propertyListFilter(r)
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

func PropertiesGet(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "propertyID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		property, err := svc.Get(r.Context(), id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, property)
	}
}

func PropertiesMine(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		filter, err := propertyListFilter(r)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		list, err := svc.MyProperties(r.Context(), middleware.PrincipalFromContext(r.Context()), filter)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.Success(w, list)
	}
}

// PropertiesCreate accepts either a JSON body or a multipart form carrying a
// property_photo file alongside the listing fields.
func PropertiesCreate(svc properties.Service, store *storage.Store, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		var body properties.CreateRequest
		var photoURL string

		if isMultipart(r) {
			if store == nil {
				wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "upload storage unavailable"))
				return
			}

			parsed, url, err := decodePropertyForm(r, store)
			if err != nil {
				wr.Error(r.Context(), w, err)
				return
			}
			body, photoURL = parsed, url
		} else {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				wr.Error(r.Context(), w, err)
				return
			}
		}

		property, err := svc.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), body, photoURL)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusCreated, "Property created successfully", property)
	}
}

func PropertiesUpdate(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "propertyID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body properties.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		property, err := svc.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), id, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Property updated successfully", property)
	}
}

func PropertiesUpdateStatus(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "propertyID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body propertyStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		property, err := svc.UpdateStatus(r.Context(), middleware.PrincipalFromContext(r.Context()), id, body.Status)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Property status updated successfully", property)
	}
}

func PropertiesDelete(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "propertyID"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), id); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		wr.SuccessMessage(w, http.StatusOK, "Property deleted successfully", nil)
	}
}

func PropertiesStatistics(svc properties.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "property service unavailable"))
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

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

// decodePropertyForm assembles a create payload from multipart fields and
// stores the optional photo. The returned URL is empty when no file was sent.
func decodePropertyForm(r *http.Request, store *storage.Store) (properties.CreateRequest, string, error) {
	var body properties.CreateRequest

	if err := r.ParseMultipartForm(store.MaxBytes() + 1<<20); err != nil {
		return body, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	body.Title = formValue(r, "title")
	body.Description = formValue(r, "description")
	body.PropertyType = formValue(r, "property_type")
	body.ListingType = formValue(r, "listing_type")
	body.Location = formValue(r, "location")
	body.City = formValue(r, "city")
	body.Address = formValue(r, "address")
	body.Features = formFeatures(r)

	if raw := formValue(r, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return body, "", pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
		}
		body.Price = price
	}

	if raw := formValue(r, "area_sqm"); raw != "" {
		area, err := decimal.NewFromString(raw)
		if err != nil {
			return body, "", pkgerrors.New(pkgerrors.CodeValidation, "area_sqm must be a number")
		}
		body.AreaSqm = &area
	}

	for field, dest := range map[string]**int{
		"bedrooms":       &body.Bedrooms,
		"bathrooms":      &body.Bathrooms,
		"parking_spaces": &body.ParkingSpaces,
	} {
		raw := formValue(r, field)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return body, "", pkgerrors.New(pkgerrors.CodeValidation, field+" must be an integer")
		}
		*dest = &value
	}

	if err := validators.ValidateStruct(&body); err != nil {
		return body, "", err
	}

	file, header, err := r.FormFile(photoFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return body, "", nil
		}
		return body, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading property photo")
	}
	defer file.Close()

	photoURL, err := store.Save(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return body, "", pkgerrors.New(pkgerrors.CodeValidation, "property photo exceeds the size limit")
		}
		if errors.Is(err, storage.ErrUnsupportedType) {
			return body, "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported property photo type")
		}
		return body, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing property photo")
	}

	return body, photoURL, nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formFeatures accepts repeated features fields or one comma-separated value.
func formFeatures(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}
	raw := r.MultipartForm.Value["features"]
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		raw = strings.Split(raw[0], ",")
	}
	features := make([]string, 0, len(raw))
	for _, f := range raw {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	if len(features) == 0 {
		return nil
	}
	return features
}
