// Playdeck Core
// Copyright (c) 2026 The Playdeck Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playdeck Core.
//
// Playdeck Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playdeck Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playdeck Core.  If not, see <http://www.gnu.org/licenses/>.

// Package input routes keyboard, gamepad and virtual-touch input from two
// players into normalized control events. The router owns a typed event
// channel consumed by the session controller; there is no global event bus.
package input

import (
	"github.com/PlaydeckProject/playdeck-core/pkg/config"
	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/PlaydeckProject/playdeck-core/pkg/helpers/syncutil"
	"github.com/PlaydeckProject/playdeck-core/pkg/mappings"
	"github.com/jonboulle/clockwork"
)

// Headroom for bursts of simultaneous edges (both players mashing plus a
// stick flick) without blocking the pollers.
const eventBuffer = 128

// Capture identifies the binding slot waiting for the next physical key.
type Capture struct {
	Player controls.Player
	Button controls.Button
}

// Bare modifier keys never complete a capture; they stay available as parts
// of ordinary bindings like ShiftRight.
var modifierCodes = map[string]bool{
	"ShiftLeft":    true,
	"ShiftRight":   true,
	"ControlLeft":  true,
	"ControlRight": true,
	"AltLeft":      true,
	"AltRight":     true,
	"MetaLeft":     true,
	"MetaRight":    true,
	"CapsLock":     true,
}

// Router owns both players' mappings, the keyboard capture state, per-device
// gamepad edge state and per-pointer virtual-dpad state.
//
// LOCKING RULES: mu protects all mutable fields. Events are never sent while
// holding the lock; handlers build an ordered batch under the lock and send
// it after unlocking, so a slow consumer cannot deadlock the router.
type Router struct {
	store    *mappings.Store
	cfg      *config.Instance
	clock    clockwork.Clock
	events   chan controls.Event
	maps     mappings.Mappings
	capture  *Capture
	pads     map[int]*padState
	pointers map[pointerKey]controls.Button
	mu       syncutil.Mutex
}

// NewRouter loads persisted mappings from the store and returns a router
// ready to receive input.
func NewRouter(cfg *config.Instance, store *mappings.Store, clock clockwork.Clock) *Router {
	return &Router{
		store:    store,
		cfg:      cfg,
		clock:    clock,
		events:   make(chan controls.Event, eventBuffer),
		maps:     store.Load(),
		pads:     make(map[int]*padState),
		pointers: make(map[pointerKey]controls.Button),
	}
}

// Events returns the channel of normalized input events, in capture order.
func (r *Router) Events() <-chan controls.Event {
	return r.events
}

// Mappings returns a copy of the current mappings.
func (r *Router) Mappings() mappings.Mappings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maps.Clone()
}

// BeginCapture arms capture mode: the next non-modifier key pressed becomes
// the binding for the given player and button.
func (r *Router) BeginCapture(player controls.Player, button controls.Button) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capture = &Capture{Player: player, Button: button}
}

// CancelCapture disarms capture mode without rebinding.
func (r *Router) CancelCapture() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capture = nil
}

// PendingCapture reports the capture slot currently awaiting a key, if any.
func (r *Router) PendingCapture() (Capture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capture == nil {
		return Capture{}, false
	}
	return *r.capture, true
}

// ClearBinding unbinds a button and persists the change.
func (r *Router) ClearBinding(player controls.Player, button controls.Button) {
	r.mu.Lock()
	r.maps.Player(player).Clear(button)
	snapshot := r.maps.Clone()
	r.mu.Unlock()

	r.store.Save(snapshot)
}

// ResetMappings restores the built-in defaults for both players.
func (r *Router) ResetMappings() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps = r.store.Reset()
}

// HandleKeyDown processes a physical key press. In capture mode the key
// completes (or, for Escape, cancels) the pending capture and emits nothing.
// Otherwise the key is checked against both players' bindings and a down
// event is emitted independently for each match.
func (r *Router) HandleKeyDown(code string) {
	r.mu.Lock()

	if r.capture != nil {
		if code == "Escape" {
			r.capture = nil
			r.mu.Unlock()
			return
		}
		if modifierCodes[code] {
			r.mu.Unlock()
			return
		}

		target := *r.capture
		r.capture = nil
		r.maps.Player(target.Player).Set(target.Button, code)
		snapshot := r.maps.Clone()
		r.mu.Unlock()

		// persisted as a whole on every mutation
		r.store.Save(snapshot)
		return
	}

	evs := r.matchKey(code, controls.TransitionDown)
	r.mu.Unlock()
	r.send(evs)
}

// HandleKeyUp processes a physical key release. Releases are ignored while a
// capture is pending.
func (r *Router) HandleKeyUp(code string) {
	r.mu.Lock()
	if r.capture != nil {
		r.mu.Unlock()
		return
	}
	evs := r.matchKey(code, controls.TransitionUp)
	r.mu.Unlock()
	r.send(evs)
}

// matchKey is called with mu held. A single physical key may be bound for
// both players and emits independently for each; an unmapped key is a
// silent no-op.
func (r *Router) matchKey(code string, tr controls.Transition) []controls.Event {
	var evs []controls.Event
	for _, p := range controls.Players() {
		if b, ok := r.maps.Player(p).Lookup(code); ok {
			evs = append(evs, controls.Event{Button: b, Transition: tr, Player: p})
		}
	}
	return evs
}

// send delivers a batch of events in order. Sends block rather than drop so
// edge pairs are never lost or reordered.
func (r *Router) send(evs []controls.Event) {
	for _, ev := range evs {
		r.events <- ev
	}
}
