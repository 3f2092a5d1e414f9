package domain

// Asset is a geographically-fixed entity under monitoring.
type Asset struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`

	// Importance rates criticality from 1 (low) to 10 (mission critical).
	Importance int `json:"importance"`

	// RadiusKm is the concern radius: events farther away than this are
	// not relevant to the asset. Valid range 1–100.
	RadiusKm float64 `json:"radius_km"`
}

// Located reports whether the asset has been pinned to a coordinate.
// Unlocated assets are skipped by proximity and scan logic.
func (a Asset) Located() bool {
	return a.Lat != nil && a.Lon != nil
}

// Registry is an immutable snapshot of the monitored asset set, built once
// per scan cycle. All proximity lookups during a cycle go through the same
// snapshot.
type Registry struct {
	assets []Asset
}

// NewRegistry builds a registry snapshot. The input slice is copied, so
// later mutation by the caller cannot affect an in-flight scan.
func NewRegistry(assets []Asset) *Registry {
	snapshot := make([]Asset, len(assets))
	copy(snapshot, assets)
	return &Registry{assets: snapshot}
}

// Assets returns the snapshot in registry iteration order.
func (r *Registry) Assets() []Asset {
	return r.assets
}

// Len returns the number of assets in the snapshot.
func (r *Registry) Len() int {
	return len(r.assets)
}
