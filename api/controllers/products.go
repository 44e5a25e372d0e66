package controllers

import (
	"net/http"
	"time"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/validators"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/products"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

type createProductRequest struct {
	BrandID      string     `json:"brand_id" validate:"required,uuid"`
	CategoryIDs  []string   `json:"category_ids" validate:"required,min=1,dive,uuid"`
	Name         string     `json:"name" validate:"required,max=255"`
	SKU          string     `json:"sku" validate:"required,max=255"`
	Image        *string    `json:"image,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Quantity     int        `json:"quantity" validate:"gte=0,lte=100"`
	QuantityMode string     `json:"quantity_mode,omitempty" validate:"omitempty,oneof=strict relaxed"`
	Price        string     `json:"price" validate:"required,price"`
	IsVisible    bool       `json:"is_visible"`
	IsFeatured   bool       `json:"is_featured"`
	Type         string     `json:"type,omitempty" validate:"omitempty,oneof=downloadable deliverable"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

type updateProductRequest struct {
	BrandID      *string    `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	CategoryIDs  *[]string  `json:"category_ids,omitempty" validate:"omitempty,min=1,dive,uuid"`
	Name         *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	SKU          *string    `json:"sku,omitempty" validate:"omitempty,max=255"`
	Image        *string    `json:"image,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Quantity     *int       `json:"quantity,omitempty" validate:"omitempty,gte=0,lte=100"`
	QuantityMode string     `json:"quantity_mode,omitempty" validate:"omitempty,oneof=strict relaxed"`
	Price        *string    `json:"price,omitempty" validate:"omitempty,price"`
	IsVisible    *bool      `json:"is_visible,omitempty"`
	IsFeatured   *bool      `json:"is_featured,omitempty"`
	Type         *string    `json:"type,omitempty" validate:"omitempty,oneof=downloadable deliverable"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

func (r createProductRequest) toInput() (products.CreateInput, error) {
	brandID, err := parseOptionalUUID("brand_id", &r.BrandID)
	if err != nil {
		return products.CreateInput{}, err
	}
	categoryIDs, err := parseUUIDList("category_ids", r.CategoryIDs)
	if err != nil {
		return products.CreateInput{}, err
	}
	return products.CreateInput{
		BrandID:      *brandID,
		CategoryIDs:  categoryIDs,
		Name:         r.Name,
		SKU:          r.SKU,
		Image:        r.Image,
		Description:  r.Description,
		Quantity:     r.Quantity,
		QuantityMode: products.QuantityMode(r.QuantityMode),
		Price:        r.Price,
		IsVisible:    r.IsVisible,
		IsFeatured:   r.IsFeatured,
		Type:         r.Type,
		PublishedAt:  r.PublishedAt,
	}, nil
}

func (r updateProductRequest) toInput() (products.UpdateInput, error) {
	brandID, err := parseOptionalUUID("brand_id", r.BrandID)
	if err != nil {
		return products.UpdateInput{}, err
	}
	input := products.UpdateInput{
		BrandID:      brandID,
		Name:         r.Name,
		SKU:          r.SKU,
		Image:        r.Image,
		Description:  r.Description,
		Quantity:     r.Quantity,
		QuantityMode: products.QuantityMode(r.QuantityMode),
		Price:        r.Price,
		IsVisible:    r.IsVisible,
		IsFeatured:   r.IsFeatured,
		Type:         r.Type,
		PublishedAt:  r.PublishedAt,
	}
	if r.CategoryIDs != nil {
		ids, err := parseUUIDList("category_ids", *r.CategoryIDs)
		if err != nil {
			return products.UpdateInput{}, err
		}
		input.CategoryIDs = &ids
	}
	return input, nil
}

// ListProducts serves the product table. Search covers name, description and
// brand name.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}

		visible, err := validators.ParseQueryBool(r, "visible")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := validators.ParseQueryUUID(r, "brand_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
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

		result, err := svc.List(r.Context(), products.ListInput{
			Search:     validators.SearchTerm(r),
			Visible:    visible,
			BrandID:    brandID,
			CategoryID: categoryID,
			Trashed:    trashed,
			Page:       page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
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
