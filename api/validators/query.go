package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

const maxSearchLength = 100

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.ValidationFailed(key, "must be numeric")
	}
	if value < min || value > max {
		return 0, pkgerrors.ValidationFailed(key, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return value, nil
}

// ParseQueryUUID returns nil when the parameter is absent.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.ValidationFailed(key, "must be a uuid")
	}
	return &id, nil
}

// ParseQueryBool returns nil when the parameter is absent.
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.ValidationFailed(key, "must be true or false")
	}
	return &value, nil
}

// ParsePage reads limit and cursor.
func ParsePage(r *http.Request) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}, nil
}

func ParseTrashed(r *http.Request) (enums.TrashedFilter, error) {
	filter, err := enums.ParseTrashedFilter(strings.TrimSpace(r.URL.Query().Get("trashed")))
	if err != nil {
		return "", pkgerrors.ValidationFailed("trashed", "must be without, with or only")
	}
	return filter, nil
}

// SearchTerm returns the normalized q parameter.
func SearchTerm(r *http.Request) string {
	return NormalizeSearch(r.URL.Query().Get("q"), maxSearchLength)
}
