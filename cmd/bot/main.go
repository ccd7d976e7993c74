// Command bot is a headless client: it connects, drives the controlled actor
// on a wandering heading, and prints combat events. Useful for smoke-testing
// a running server without a renderer.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"skirmish/internal/protocol"
)

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "client name")
		seed = flag.Int64("seed", 1, "wander seed")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rng := rand.New(rand.NewSource(*seed))
	yaw := 0.0

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME controlled=%s tick_rate=%d seed=%d layout=%s",
				w.ControlledID, w.WorldParams.TickRateHz, w.WorldParams.Seed, w.WorldParams.LayoutDigest)

		case protocol.TypeState:
			var state protocol.StateMsg
			if err := json.Unmarshal(msg, &state); err != nil {
				continue
			}
			for _, e := range state.Events {
				logger.Printf("event %v", e)
			}

			// Hold each heading for a couple of seconds, then veer. Stand
			// still while a fight is on so the turn is not forfeited.
			if state.Tick%120 == 0 {
				yaw += (rng.Float64() - 0.5) * math.Pi
			}
			in := protocol.IntentMsg{
				Type:            protocol.TypeIntent,
				ProtocolVersion: protocol.Version,
				Yaw:             yaw,
			}
			if state.Combat == nil {
				in.Move = [2]float64{0, 1}
			}
			_ = conn.WriteJSON(in)
		}
	}
}
