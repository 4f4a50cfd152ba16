package models

import "sort"

// Surface identifies a risk surface touched by a change.
type Surface string

const (
	SurfaceCI         Surface = "ci"
	SurfaceOpsScripts Surface = "ops-scripts"
	SurfaceEnvConfig  Surface = "env-config"
	SurfaceConfig     Surface = "config"
	SurfacePrivilege  Surface = "privilege"
	SurfaceAuth       Surface = "auth"
	SurfaceNetwork    Surface = "network"
)

// gatingSurfaces are the surfaces that require evidence and reviewer quorum.
var gatingSurfaces = []Surface{
	SurfacePrivilege,
	SurfaceAuth,
	SurfaceNetwork,
	SurfaceEnvConfig,
	SurfaceConfig,
}

// SurfaceSet is an unordered set of risk surfaces.
type SurfaceSet map[Surface]bool

// NewSurfaceSet builds a set from the given surfaces.
func NewSurfaceSet(surfaces ...Surface) SurfaceSet {
	set := make(SurfaceSet, len(surfaces))
	for _, s := range surfaces {
		set[s] = true
	}
	return set
}

// Add inserts a surface into the set.
func (s SurfaceSet) Add(surface Surface) {
	s[surface] = true
}

// Has reports whether the surface is in the set.
func (s SurfaceSet) Has(surface Surface) bool {
	return s[surface]
}

// Union merges other into a new set, leaving both inputs unchanged.
func (s SurfaceSet) Union(other SurfaceSet) SurfaceSet {
	out := make(SurfaceSet, len(s)+len(other))
	for k := range s {
		out[k] = true
	}
	for k := range other {
		out[k] = true
	}
	return out
}

// Gateable reports whether any surface in the set requires gating.
func (s SurfaceSet) Gateable() bool {
	for _, g := range gatingSurfaces {
		if s[g] {
			return true
		}
	}
	return false
}

// Sorted returns the surfaces as a sorted string slice for stable persistence.
func (s SurfaceSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
