package controllers

import (
	"net/http"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/validators"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/categories"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Description *string `json:"description,omitempty"`
	IsVisible   bool    `json:"is_visible"`
}

type updateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	// DetachParent moves the category to the root and wins over parent_id.
	DetachParent bool    `json:"detach_parent"`
	Description  *string `json:"description,omitempty"`
	IsVisible    *bool   `json:"is_visible,omitempty"`
}

func ListCategories(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
			return
		}

		visible, err := validators.ParseQueryBool(r, "visible")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		parentID, err := validators.ParseQueryUUID(r, "parent_id")
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

		result, err := svc.List(r.Context(), categories.ListInput{
			Search:   validators.SearchTerm(r),
			Visible:  visible,
			ParentID: parentID,
			Trashed:  trashed,
			Page:     page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
			return
		}

		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		parentID, err := parseOptionalUUID("parent_id", payload.ParentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), categories.CreateInput{
			Name:        payload.Name,
			ParentID:    parentID,
			Description: payload.Description,
			IsVisible:   payload.IsVisible,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func GetCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func UpdateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		parentID, err := parseOptionalUUID("parent_id", payload.ParentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Update(r.Context(), id, categories.UpdateInput{
			Name:         payload.Name,
			ParentID:     parentID,
			DetachParent: payload.DetachParent,
			Description:  payload.Description,
			IsVisible:    payload.IsVisible,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func DeleteCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
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

func RestoreCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "category")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.Restore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}
