package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"

	"skirmish/internal/geom"
	"skirmish/internal/protocol"
	"skirmish/internal/sim/layout"
)

type WorldConfig struct {
	TickRateHz int
	Seed       int64
}

type JoinRequest struct {
	ClientName string
	Out        chan []byte
	Resp       chan JoinResponse
}

type JoinResponse struct {
	ClientID string
	Welcome  protocol.WelcomeMsg
}

// IntentEnvelope is one client frame of input as received by the transport.
type IntentEnvelope struct {
	ClientID string             `json:"client_id"`
	Intent   protocol.IntentMsg `json:"intent"`
}

// TickRecorder receives one entry per simulation tick; implemented by
// internal/record and consumed by cmd/replay.
type TickRecorder interface {
	WriteTick(entry TickRecord) error
}

type TickRecord struct {
	Tick    uint64           `json:"tick"`
	Intents []IntentEnvelope `json:"intents,omitempty"`
	Digest  string           `json:"digest"`
}

// World is the authoritative simulation: actor store, collision index and
// combat session, advanced one tick at a time. All state must be accessed
// only from the world loop goroutine; there is no locking.
type World struct {
	cfg    WorldConfig
	layout *layout.Layout
	log    *log.Logger
	rng    *rand.Rand

	tick uint64

	actors       map[string]*Actor
	index        *CollisionIndex
	controlledID string
	session      *CombatSession

	// Per-tick buffers, flushed into STATE at the end of every step.
	events   []protocol.Event
	defeated []string

	lastDigest string

	clients       map[string]*clientState
	nextClientNum uint64

	inbox chan IntentEnvelope
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	recorder TickRecorder

	// Atomic mirrors of loop state, refreshed once per tick so the metrics
	// endpoint never touches simulation data.
	obsTick    atomic.Uint64
	obsActors  atomic.Int64
	obsClients atomic.Int64
}

// WorldMetrics is a read-only snapshot for the metrics endpoint.
type WorldMetrics struct {
	Tick       uint64 `json:"tick"`
	Actors     int    `json:"actors"`
	Clients    int    `json:"clients"`
	InboxDepth int    `json:"inbox_depth"`
}

// Metrics is safe to call from any goroutine.
func (w *World) Metrics() WorldMetrics {
	return WorldMetrics{
		Tick:       w.obsTick.Load(),
		Actors:     int(w.obsActors.Load()),
		Clients:    int(w.obsClients.Load()),
		InboxDepth: len(w.inbox),
	}
}

type clientState struct {
	Name string
	Out  chan []byte
}

func New(cfg WorldConfig, l *layout.Layout, logger *log.Logger) (*World, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("world: tick rate must be positive, got %d", cfg.TickRateHz)
	}
	controlled := l.ControlledID()
	if controlled == "" {
		return nil, fmt.Errorf("world: layout %q has no controllable actor", l.Name)
	}

	w := &World{
		cfg:          cfg,
		layout:       l,
		log:          logger,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		actors:       map[string]*Actor{},
		index:        NewCollisionIndex(),
		controlledID: controlled,
		clients:      map[string]*clientState{},
		inbox:        make(chan IntentEnvelope, 64),
		join:         make(chan JoinRequest),
		leave:        make(chan string),
		stop:         make(chan struct{}),
	}

	for _, s := range l.Structures {
		w.index.AddStatic(geom.BoxFromCenter(
			geom.Vec3{X: s.Center[0], Y: s.Center[1], Z: s.Center[2]},
			geom.Vec3{X: s.Size[0], Y: s.Size[1], Z: s.Size[2]},
		))
	}
	for _, def := range l.Actors {
		a := actorFromDef(def)
		w.actors[a.ID] = a
		w.index.SetOwned(a.ID, a.Box())
	}
	return w, nil
}

func (w *World) SetRecorder(r TickRecorder) { w.recorder = r }

func (w *World) Inbox() chan<- IntentEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest     { return w.join }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick }

func (w *World) emit(e protocol.Event) {
	if _, ok := e["t"]; !ok {
		e["t"] = w.tick
	}
	w.events = append(w.events, e)
}

// stateDigest is a deterministic fingerprint of the full simulation state,
// written to tick records so cmd/replay can verify a re-run bit for bit.
func (w *World) stateDigest() string {
	h := sha256.New()
	fmt.Fprintf(h, "tick=%d controlled=%s\n", w.tick, w.controlledID)
	for _, a := range w.sortedActors() {
		fmt.Fprintf(h, "%s|%s|%v|%v|%v|%v|%v|%v|%v|%d|%s\n",
			a.ID, a.Faction, a.Pos.X, a.Pos.Y, a.Pos.Z,
			a.Yaw, a.VelY, a.Grounded, a.Walking, a.HP, a.TargetID)
	}
	if s := w.session; s != nil {
		fmt.Fprintf(h, "combat|%v|%d|%v\n", s.Order, s.Index, s.Timer)
	}
	return hex.EncodeToString(h.Sum(nil))
}
