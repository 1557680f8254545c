package host

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseGUID parses a GUID in registry form "{XXXXXXXX-...}" or bare form.
func ParseGUID(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing GUID %q: %w", s, err)
	}
	return u, nil
}

// IsGUID reports whether s parses as a GUID.
func IsGUID(s string) bool {
	_, err := ParseGUID(s)
	return err == nil
}

// FormatGUID renders a GUID the way the catalog spells its keys.
func FormatGUID(u uuid.UUID) string {
	return "{" + strings.ToUpper(u.String()) + "}"
}
