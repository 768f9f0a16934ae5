package templates

import "golang.org/x/text/message"

// Localizer provides translated strings for page components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key with loc. Without a localizer the key itself is shown,
// which keeps untranslated pages readable in tests.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}
