package controllers

import (
	"net/http"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/validators"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/brands"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

type createBrandRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	URL         string  `json:"url" validate:"required,url,max=255"`
	PrimaryHex  string  `json:"primary_hex" validate:"required,hexcolor"`
	IsVisible   *bool   `json:"is_visible,omitempty"`
	Description *string `json:"description,omitempty"`
}

type updateBrandRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url,max=255"`
	PrimaryHex  *string `json:"primary_hex,omitempty" validate:"omitempty,hexcolor"`
	IsVisible   *bool   `json:"is_visible,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListBrands serves the brand table with search, visibility and trashed filters.
func ListBrands(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}

		visible, err := validators.ParseQueryBool(r, "visible")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		trashed, err := validators.ParseTrashed(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), brands.ListInput{
			Search:  validators.SearchTerm(r),
			Visible: visible,
			Trashed: trashed,
			Page:    page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}

		var payload createBrandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brand, err := svc.Create(r.Context(), brands.CreateInput{
			Name:        payload.Name,
			URL:         payload.URL,
			PrimaryHex:  payload.PrimaryHex,
			IsVisible:   payload.IsVisible,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	}
}

func GetBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

func UpdateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBrandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brand, err := svc.Update(r.Context(), id, brands.UpdateInput{
			Name:        payload.Name,
			URL:         payload.URL,
			PrimaryHex:  payload.PrimaryHex,
			IsVisible:   payload.IsVisible,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

func DeleteBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func RestoreBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "brand")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.Restore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}
