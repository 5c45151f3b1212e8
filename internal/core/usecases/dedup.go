package usecases

import (
	"fmt"

	"github.com/yatramap/yatramap/internal/core/domain"
)

// waypointKey rounds both coordinates to 6 decimal places (~0.11 m), the
// pipeline's fixed identity tolerance.
func waypointKey(w domain.Waypoint) string {
	return fmt.Sprintf("%.6f,%.6f", w.Lat, w.Lng)
}

// Dedup removes later duplicates from an ordered waypoint sequence, keeping
// the first occurrence. Runs in linear time.
func Dedup(wps []domain.Waypoint) []domain.Waypoint {
	if len(wps) < 2 {
		return wps
	}
	seen := make(map[string]struct{}, len(wps))
	out := wps[:0:0]
	for _, w := range wps {
		key := waypointKey(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}
