package mapmodel

import (
	"sort"

	"github.com/paulmach/orb/planar"
)

/* Parcel grouping */

// groupParcels clusters parcels into blocks: parcels whose polygons touch or
// overlap within the adjacency tolerance land in the same block (connected
// components over the adjacency relation, computed with a union-find).
//
// Block ids are assigned by ascending smallest parcel id per component, not by
// processing order, so reruns on identical input produce identical ids.
func groupParcels(parcels map[ParcelID]*Parcel, cfg *Config) map[ParcelID]BlockID {
	ids := make([]ParcelID, 0, len(parcels))
	for id := range parcels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Disjoint-set with path compression and union by rank
	parent := make(map[ParcelID]ParcelID, len(ids))
	rank := make(map[ParcelID]int, len(ids))
	for _, id := range ids {
		parent[id] = id
		rank[id] = 0
	}
	find := func(u ParcelID) ParcelID {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(u, v ParcelID) {
		rootU := find(u)
		rootV := find(v)
		if rootU == rootV {
			return
		}
		if rank[rootU] < rank[rootV] {
			parent[rootU] = rootV
		} else if rank[rootU] > rank[rootV] {
			parent[rootV] = rootU
		} else {
			parent[rootV] = rootU
			rank[rootU]++
		}
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if parcelsAdjacent(parcels[ids[i]], parcels[ids[j]], cfg.ParcelAdjacencyTolerance) {
				union(ids[i], ids[j])
			}
		}
	}

	// Components keyed by their smallest member id
	componentMin := make(map[ParcelID]ParcelID)
	for _, id := range ids {
		root := find(id)
		if lowest, ok := componentMin[root]; !ok || id < lowest {
			componentMin[root] = id
		}
	}
	lowestIDs := make([]ParcelID, 0, len(componentMin))
	for _, lowest := range componentMin {
		lowestIDs = append(lowestIDs, lowest)
	}
	sort.Slice(lowestIDs, func(i, j int) bool { return lowestIDs[i] < lowestIDs[j] })
	blockByLowest := make(map[ParcelID]BlockID, len(lowestIDs))
	for i, lowest := range lowestIDs {
		blockByLowest[lowest] = BlockID(i)
	}

	blocks := make(map[ParcelID]BlockID, len(ids))
	for _, id := range ids {
		blocks[id] = blockByLowest[componentMin[find(id)]]
	}
	return blocks
}

// parcelsAdjacent reports whether two parcel polygons touch or overlap within
// the tolerance. The relation is symmetric by construction.
func parcelsAdjacent(a, b *Parcel, tolerance float64) bool {
	ringA := a.outerRing()
	ringB := b.outerRing()
	if ringA == nil || ringB == nil {
		return false
	}
	if !a.Polygon.Bound().Pad(tolerance).Intersects(b.Polygon.Bound()) {
		return false
	}
	// Overlap: one polygon contains a vertex of the other
	for _, pt := range ringA {
		if planar.RingContains(ringB, pt) {
			return true
		}
	}
	for _, pt := range ringB {
		if planar.RingContains(ringA, pt) {
			return true
		}
	}
	return ringsMinDistance(ringA, ringB) <= tolerance
}
