package enums

import "fmt"

// TrashedFilter selects how soft-deleted rows are treated by list queries.
type TrashedFilter string

const (
	TrashedWithout TrashedFilter = "without"
	TrashedWith    TrashedFilter = "with"
	TrashedOnly    TrashedFilter = "only"
)

var validTrashedFilters = []TrashedFilter{
	TrashedWithout,
	TrashedWith,
	TrashedOnly,
}

// String implements fmt.Stringer.
func (t TrashedFilter) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrashedFilter.
func (t TrashedFilter) IsValid() bool {
	for _, candidate := range validTrashedFilters {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrashedFilter converts raw input into a TrashedFilter. Empty input
// means soft-deleted rows are excluded.
func ParseTrashedFilter(value string) (TrashedFilter, error) {
	if value == "" {
		return TrashedWithout, nil
	}
	for _, candidate := range validTrashedFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trashed filter %q", value)
}
