package domain

import "sort"

// ProximateAsset pairs an asset with its distance from an event centre.
type ProximateAsset struct {
	Asset      Asset
	DistanceKm float64
}

// Impacted returns the assets whose concern radius covers the given event
// coordinate, sorted by importance descending. The boundary is inclusive:
// an asset exactly RadiusKm away is impacted. Equal-importance assets keep
// registry iteration order (stable sort). Unlocated assets never match.
//
// An empty result means "general/unscoped" context, not an error.
func (r *Registry) Impacted(eventLat, eventLon float64) []ProximateAsset {
	var impacted []ProximateAsset
	for _, a := range r.assets {
		if !a.Located() {
			continue
		}
		d := Distance(eventLat, eventLon, *a.Lat, *a.Lon)
		if d <= a.RadiusKm {
			impacted = append(impacted, ProximateAsset{Asset: a, DistanceKm: d})
		}
	}

	sort.SliceStable(impacted, func(i, j int) bool {
		return impacted[i].Asset.Importance > impacted[j].Asset.Importance
	})
	return impacted
}
