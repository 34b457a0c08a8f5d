package properties

import (
	"context"
	"fmt"
	"strings"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

// imagePool is the fixed set of placeholder photos handed to listings
// without a usable imageUrl. Order matters: assignment walks the pool from
// a hashed start index, so reordering would reshuffle existing listings.
var imagePool = []string{
	"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1570129477492-45c003edd2be?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1576941089067-2de3c901e126?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1613977257363-707ba9348227?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1518780664697-55e3ad937233?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600607687644-c7f34b5fba5f?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600607686527-6fb886090705?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600585154340-be6161a56a0c?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600047509807-ba8f99d2cdde?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600566753190-17f0baa2a6c3?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1512918728675-ed5a9ecdebfd?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1568605114967-8130f3a36994?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1572120360610-d971b9d7767c?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600573472591-ee6b68d14c68?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1600121848594-d8644e57abab?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1484154218962-a197022b5858?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1560185007-5f0bb1866cab?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1494526585095-c41746248156?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1505693416388-ac5ce068fe85?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1480074568708-e7b720bb3f09?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1501183638710-841dd1904471?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?auto=format&fit=crop&w=1600&q=80",
	"https://images.unsplash.com/photo-1516455590571-18256e5bb9ff?auto=format&fit=crop&w=1600&q=80",
}

// usableImageURL rejects values that cannot render from a shared store,
// like local file paths leaked by a file picker.
func usableImageURL(value string) bool {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		return false
	}
	normalized := strings.ToLower(candidate)
	if strings.HasPrefix(normalized, `c:\`) || strings.HasPrefix(normalized, "file:") || strings.Contains(normalized, "fakepath") {
		return false
	}
	return strings.HasPrefix(normalized, "http://") ||
		strings.HasPrefix(normalized, "https://") ||
		strings.HasPrefix(normalized, "data:image/") ||
		strings.HasPrefix(normalized, "/")
}

// imageKey derives a stable cache key for a listing; falls back to the
// title/location/price tuple when the listing has no id yet.
func imageKey(p types.Property) string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return "id:" + id
	}
	title := strings.ToLower(strings.TrimSpace(p.Title))
	if title == "" {
		title = "property"
	}
	location := strings.ToLower(strings.TrimSpace(p.Location))
	if location == "" {
		location = "city"
	}
	return fmt.Sprintf("meta:%s|%s|%v", title, location, p.Price)
}

// hashKey is the 32-bit string hash the assignment map was built with;
// changing it would reshuffle every cached assignment.
func hashKey(value string) int {
	hash := int32(0)
	for _, r := range value {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash)
}

// autoImage resolves the placeholder image for a listing through the
// persisted assignment cache, preferring an unused pool entry by walking
// forward from the hashed start index.
func (s *Service) autoImage(ctx context.Context, p types.Property) string {
	key := imageKey(p)

	assigned, _ := store.ReadCell[map[string]string](ctx, s.store, store.KeyImageMap)
	if assigned == nil {
		assigned = map[string]string{}
	}
	if existing, ok := assigned[key]; ok && poolContains(existing) {
		return existing
	}

	used := make(map[string]struct{}, len(assigned))
	for _, url := range assigned {
		used[url] = struct{}{}
	}

	start := hashKey(key) % len(imagePool)
	chosen := imagePool[start]
	for step := 0; step < len(imagePool); step++ {
		candidate := imagePool[(start+step)%len(imagePool)]
		if _, taken := used[candidate]; !taken {
			chosen = candidate
			break
		}
	}

	assigned[key] = chosen
	// cache write is cosmetic; ignore storage failure and serve the pick
	_ = store.WriteCell(ctx, s.store, store.KeyImageMap, assigned)
	return chosen
}

func poolContains(url string) bool {
	for _, candidate := range imagePool {
		if candidate == url {
			return true
		}
	}
	return false
}
