package world

import "skirmish/internal/geom"

// Volume is one collision entry: a world-space box plus the owning actor id,
// empty for static structure. An actor never collides with its own volume.
type Volume struct {
	OwnerID string
	Box     geom.AABB
}

// CollisionIndex is the flat set of volumes the movement resolver probes.
// Actor volumes are updated in place as actors move and removed when an actor
// is removed; the structural volumes never change.
type CollisionIndex struct {
	volumes []Volume
	byOwner map[string]int // index into volumes for owned entries
}

func NewCollisionIndex() *CollisionIndex {
	return &CollisionIndex{byOwner: map[string]int{}}
}

func (ci *CollisionIndex) AddStatic(box geom.AABB) {
	ci.volumes = append(ci.volumes, Volume{Box: box})
}

func (ci *CollisionIndex) SetOwned(owner string, box geom.AABB) {
	if i, ok := ci.byOwner[owner]; ok {
		ci.volumes[i].Box = box
		return
	}
	ci.byOwner[owner] = len(ci.volumes)
	ci.volumes = append(ci.volumes, Volume{OwnerID: owner, Box: box})
}

// RemoveOwned drops an actor's volume. Missing owners are a no-op: the caller
// may have never registered one.
func (ci *CollisionIndex) RemoveOwned(owner string) {
	i, ok := ci.byOwner[owner]
	if !ok {
		return
	}
	last := len(ci.volumes) - 1
	if i != last {
		ci.volumes[i] = ci.volumes[last]
		if ci.volumes[i].OwnerID != "" {
			ci.byOwner[ci.volumes[i].OwnerID] = i
		}
	}
	ci.volumes = ci.volumes[:last]
	delete(ci.byOwner, owner)
}

// Blocked reports whether box intersects any volume not owned by exclude.
func (ci *CollisionIndex) Blocked(box geom.AABB, exclude string) bool {
	for _, v := range ci.volumes {
		if v.OwnerID != "" && v.OwnerID == exclude {
			continue
		}
		if box.Intersects(v.Box) {
			return true
		}
	}
	return false
}

// Volumes exposes the raw set for the ground and ceiling probes, which need
// per-volume surface positions rather than a yes/no answer.
func (ci *CollisionIndex) Volumes() []Volume { return ci.volumes }
