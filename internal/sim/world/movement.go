package world

import (
	"math"

	"skirmish/internal/geom"
	"skirmish/internal/sim/tuning"
)

// Intent is one frame of movement input: strafe/forward in the actor's local
// frame (already normalized client-side), a jump edge and the look yaw.
type Intent struct {
	Move [2]float64
	Jump bool
	Yaw  float64
}

// resolveMovement advances one actor by dt. Horizontal displacement resolves
// one axis at a time (X then Z) so diagonal motion into a corner slides along
// whichever axis is free instead of sticking; this ordering is load-bearing
// and must not be collapsed into a single combined test.
func (w *World) resolveMovement(a *Actor, in Intent, speed, dt float64) {
	a.Yaw = in.Yaw

	sin, cos := math.Sincos(a.Yaw)
	dx := (in.Move[0]*cos + in.Move[1]*sin) * speed * dt
	dz := (in.Move[1]*cos - in.Move[0]*sin) * speed * dt

	// X axis.
	if dx != 0 {
		a.Pos.X += dx
		if w.index.Blocked(a.Box(), a.ID) {
			a.Pos.X -= dx
		}
	}
	// Z axis.
	if dz != 0 {
		a.Pos.Z += dz
		if w.index.Blocked(a.Box(), a.ID) {
			a.Pos.Z -= dz
		}
	}

	// Jump consumes the edge only when grounded; a second request before
	// landing does nothing.
	if in.Jump && a.Grounded {
		a.VelY = tuning.JumpStrength
		a.Grounded = false
	}

	landed := false
	if a.Grounded || a.VelY <= 0 {
		landed = w.snapToSurface(a, dt)
	}

	if !landed {
		a.VelY -= tuning.Gravity * dt
		a.Pos.Y += a.VelY * dt
		if a.Pos.Y <= 0 {
			a.Pos.Y = 0
			a.VelY = 0
			a.Grounded = true
		} else {
			a.Grounded = false
		}
	}

	if a.VelY > 0 {
		w.clampToCeiling(a)
	}

	intentMag := math.Hypot(in.Move[0], in.Move[1])
	a.Walking = intentMag > tuning.WalkEpsilon && a.Grounded

	w.index.SetOwned(a.ID, a.Box())
}

// snapToSurface probes the volumes under the actor's footprint; if a top
// surface sits within tolerance of the current or next feet height, the feet
// snap to it. This is what lets actors stand on crates and platforms rather
// than only the ground plane.
func (w *World) snapToSurface(a *Actor, dt float64) bool {
	nextY := a.Pos.Y + a.VelY*dt
	foot := a.Box()

	best := math.Inf(-1)
	found := false
	for _, v := range w.index.Volumes() {
		if v.OwnerID != "" && v.OwnerID == a.ID {
			continue
		}
		if !foot.OverlapsXZ(v.Box) {
			continue
		}
		top := v.Box.Max.Y
		if top <= a.Pos.Y+tuning.ContactEpsilon && top >= nextY-tuning.ContactEpsilon {
			if top > best {
				best = top
				found = true
			}
		}
	}
	if !found {
		return false
	}
	a.Pos.Y = best
	a.VelY = 0
	a.Grounded = true
	return true
}

// clampToCeiling stops upward motion against volumes whose underside is above
// the actor's midpoint, leaving the head just below the obstruction.
func (w *World) clampToCeiling(a *Actor) {
	body := a.Box()
	mid := a.Pos.Y + tuning.ActorHeight/2
	for _, v := range w.index.Volumes() {
		if v.OwnerID != "" && v.OwnerID == a.ID {
			continue
		}
		if v.Box.Min.Y <= mid {
			continue
		}
		if body.Intersects(v.Box) {
			a.Pos.Y = v.Box.Min.Y - tuning.ActorHeight - tuning.ContactEpsilon
			a.VelY = 0
			body = a.Box()
		}
	}
}

// faceToward points yaw from a's position to the target position, using the
// same yaw convention as the intent rotation (yaw 0 faces +Z).
func faceToward(a *Actor, to geom.Vec3) {
	dx := to.X - a.Pos.X
	dz := to.Z - a.Pos.Z
	if dx == 0 && dz == 0 {
		return
	}
	a.Yaw = math.Atan2(dx, dz)
}
