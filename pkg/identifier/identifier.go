package identifier

import (
	"strings"

	"github.com/google/uuid"
)

// New returns an entity id shaped like "APP-9F8A21BC": an upper-cased prefix
// plus the first group of a fresh UUID. Ids are opaque and never reused.
func New(prefix string) string {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if p == "" {
		p = "ID"
	}
	return p + "-" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}
