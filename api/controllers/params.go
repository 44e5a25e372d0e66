package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

const idParam = "id"

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, idParam))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.ValidationFailed(idParam, "must be a uuid")
	}
	return id, nil
}

func parseUUIDList(field string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, raw := range values {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.ValidationFailed(field, "must contain uuids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalUUID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.ValidationFailed(field, "must be a uuid")
	}
	return &id, nil
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
