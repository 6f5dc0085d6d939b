package display

import "strconv"

// Placeholder is shown for values the feed has not sent yet.
const Placeholder = "–"

// FormatInt renders an optional integer for the HUD.
func FormatInt(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

// FormatString renders an optional string for the HUD.
func FormatString(v *string) string {
	if v == nil || *v == "" {
		return Placeholder
	}
	return *v
}
