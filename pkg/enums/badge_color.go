package enums

// BadgeColor is the colour hint attached to a navigation badge.
type BadgeColor string

const (
	BadgeColorPrimary BadgeColor = "primary"
	BadgeColorWarning BadgeColor = "warning"
)

// String implements fmt.Stringer.
func (b BadgeColor) String() string {
	return string(b)
}
