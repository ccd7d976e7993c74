package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"skirmish/internal/protocol"
	"skirmish/internal/sim/tuning"
)

// Run drives the world at the configured tick rate until ctx is done or Stop
// is called. Inputs are buffered between ticks and applied at tick boundaries
// in arrival order.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingIntents []IntentEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-w.inbox:
			pendingIntents = append(pendingIntents, env)
		case <-ticker.C:
			w.stepInternal(pendingJoins, pendingLeaves, pendingIntents, dt)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingIntents = pendingIntents[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick with an explicit dt, using the
// same ordering as the server loop. Used by tests and cmd/replay.
func (w *World) StepOnce(intents []IntentEnvelope, dt float64) (tick uint64, digest string) {
	tick = w.tick
	w.stepInternal(nil, nil, intents, dt)
	return tick, w.lastDigest
}

// stepInternal is one simulation tick. The system order is an invariant
// (engagement needs post-movement positions and must run before the combat
// clock so a new session never resolves a turn on its starting tick):
// controlled movement -> companion follow -> engagement -> gravity settle for
// everyone else -> combat -> removal of defeated actors.
func (w *World) stepInternal(joins []JoinRequest, leaves []string, intents []IntentEnvelope, dt float64) {
	for _, id := range leaves {
		delete(w.clients, id)
	}
	for _, req := range joins {
		w.handleJoin(req)
	}

	// Collapse the tick's input frames: control switches and picks apply in
	// arrival order, movement takes the last frame, a jump edge anywhere in
	// the window counts.
	var move [2]float64
	var yaw float64
	jump := false
	haveMove := false
	for _, env := range intents {
		in := env.Intent
		if in.ControlID != "" {
			w.switchControl(in.ControlID)
		}
		if in.Pick != nil {
			w.applyPick(in.Pick.TargetID)
		}
		move = in.Move
		yaw = in.Yaw
		haveMove = true
		jump = jump || in.Jump
	}

	if controlled := w.actors[w.controlledID]; controlled != nil {
		in := Intent{Yaw: controlled.Yaw}
		if haveMove && controlled.Alive() {
			in = Intent{Move: clampMove(move), Jump: jump, Yaw: yaw}
		}
		w.resolveMovement(controlled, in, tuning.MoveSpeed, dt)
	}

	moved := w.stepFollowers(dt)

	w.detectEngagement()

	// Gravity-only settle for everyone not already resolved this tick.
	// Combatants hold still during a fight apart from facing updates.
	for _, a := range w.sortedActors() {
		if a.ID == w.controlledID || moved[a.ID] {
			continue
		}
		if w.session != nil && w.session.members[a.ID] {
			continue
		}
		w.resolveMovement(a, Intent{Yaw: a.Yaw}, 0, dt)
	}

	w.stepCombat(dt)

	w.removeDefeated()

	state := w.buildState()
	if b, err := json.Marshal(state); err == nil {
		for _, cl := range w.clients {
			sendLatest(cl.Out, b)
		}
	}

	w.lastDigest = w.stateDigest()
	if w.recorder != nil {
		entry := TickRecord{Tick: w.tick, Intents: intents, Digest: w.lastDigest}
		if err := w.recorder.WriteTick(entry); err != nil {
			w.log.Printf("record tick %d: %v", w.tick, err)
		}
	}

	w.events = w.events[:0]
	w.tick++

	w.obsTick.Store(w.tick)
	w.obsActors.Store(int64(len(w.actors)))
	w.obsClients.Store(int64(len(w.clients)))
}

// removeDefeated erases every actor reported defeated this tick in one step:
// actor state, collision volume and any stale target references. A dangling
// id must be impossible by construction, not cleaned up later.
func (w *World) removeDefeated() {
	for _, id := range w.defeated {
		if _, ok := w.actors[id]; !ok {
			continue
		}
		delete(w.actors, id)
		w.index.RemoveOwned(id)
		for _, other := range w.actors {
			if other.TargetID == id {
				other.TargetID = ""
			}
		}
		w.emit(protocol.Event{"type": protocol.EventDefeated, "id": id})
		w.log.Printf("defeated: %s", id)
	}
	w.defeated = w.defeated[:0]
}

func (w *World) handleJoin(req JoinRequest) {
	w.nextClientNum++
	id := fmt.Sprintf("C%d", w.nextClientNum)
	w.clients[id] = &clientState{Name: req.ClientName, Out: req.Out}

	resp := JoinResponse{
		ClientID: id,
		Welcome: protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			WorldParams: protocol.WorldParams{
				TickRateHz:   w.cfg.TickRateHz,
				Seed:         w.cfg.Seed,
				LayoutDigest: w.layout.Digest(),
			},
			ControlledID: w.controlledID,
		},
	}
	if req.Resp != nil {
		req.Resp <- resp
	}
}

func (w *World) buildState() protocol.StateMsg {
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            w.tick,
		ControlledID:    w.controlledID,
		Events:          append([]protocol.Event(nil), w.events...),
	}
	for _, a := range w.sortedActors() {
		msg.Actors = append(msg.Actors, protocol.ActorObs{
			ID:       a.ID,
			Faction:  string(a.Faction),
			Pos:      [3]float64{a.Pos.X, a.Pos.Y, a.Pos.Z},
			Yaw:      a.Yaw,
			HP:       a.HP,
			Grounded: a.Grounded,
			Walking:  a.Walking,
			TargetID: a.TargetID,
		})
	}
	if s := w.session; s != nil {
		msg.Combat = &protocol.CombatObs{
			Order: append([]string(nil), s.Order...),
			Index: s.Index,
			Timer: s.Timer,
		}
	}
	return msg
}

func clampMove(m [2]float64) [2]float64 {
	for i, v := range m {
		if v > 1 {
			m[i] = 1
		} else if v < -1 {
			m[i] = -1
		}
	}
	return m
}

// sendLatest never blocks the world loop: when a client's channel is full the
// stale frame is dropped in favor of the new one.
func sendLatest(ch chan []byte, b []byte) {
	for {
		select {
		case ch <- b:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// ActorIDs returns the current actor ids in sorted order. Exposed for the
// transport layer and tests; never call from another goroutine while the
// world loop is running.
func (w *World) ActorIDs() []string {
	ids := make([]string, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
