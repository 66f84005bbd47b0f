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

// Package mappings persists per-player bindings from logical pad controls to
// physical input codes. Bindings survive across sessions and are independent
// of any single session's lifetime.
package mappings

import (
	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
)

// Binding ties a logical button to a physical input code (a DOM-style key
// code such as "KeyZ" or "ArrowUp"). A nil Binding means unbound.
type Binding struct {
	Code string `json:"code"`
}

// PlayerMapping maps each logical button to its binding for one player.
// Buttons with no binding are present with a nil value.
type PlayerMapping map[controls.Button]*Binding

// Mappings holds both players' mappings. Bindings are unique within a
// player; two logical buttons may share a physical code only transiently
// during a rebind, where the last write wins.
type Mappings struct {
	P1 PlayerMapping `json:"p1"`
	P2 PlayerMapping `json:"p2"`
}

// Clone returns a deep copy, so callers can hand mappings across goroutines
// without sharing the underlying maps.
func (m Mappings) Clone() Mappings {
	return Mappings{P1: m.P1.clone(), P2: m.P2.clone()}
}

func (pm PlayerMapping) clone() PlayerMapping {
	out := make(PlayerMapping, len(pm))
	for b, bind := range pm {
		if bind == nil {
			out[b] = nil
			continue
		}
		c := *bind
		out[b] = &c
	}
	return out
}

// Player returns the mapping for the given player.
func (m Mappings) Player(p controls.Player) PlayerMapping {
	if p == controls.Player2 {
		return m.P2
	}
	return m.P1
}

// Lookup returns the logical button bound to a physical code for a player,
// if any.
func (pm PlayerMapping) Lookup(code string) (controls.Button, bool) {
	for _, b := range controls.Buttons() {
		bind := pm[b]
		if bind != nil && bind.Code == code {
			return b, true
		}
	}
	return "", false
}

// Set binds a physical code to a logical button, clearing any other button
// in the same player mapping that held the code. Last write wins.
func (pm PlayerMapping) Set(button controls.Button, code string) {
	for b, bind := range pm {
		if b != button && bind != nil && bind.Code == code {
			pm[b] = nil
		}
	}
	pm[button] = &Binding{Code: code}
}

// Clear removes the binding for a logical button.
func (pm PlayerMapping) Clear(button controls.Button) {
	pm[button] = nil
}

// Defaults returns the built-in bindings. The two players use disjoint
// keyboard keys so simultaneous two-player keyboard play never collides.
func Defaults() Mappings {
	return Mappings{
		P1: PlayerMapping{
			controls.ButtonUp:     {Code: "ArrowUp"},
			controls.ButtonDown:   {Code: "ArrowDown"},
			controls.ButtonLeft:   {Code: "ArrowLeft"},
			controls.ButtonRight:  {Code: "ArrowRight"},
			controls.ButtonA:      {Code: "KeyX"},
			controls.ButtonB:      {Code: "KeyZ"},
			controls.ButtonX:      {Code: "KeyS"},
			controls.ButtonY:      {Code: "KeyA"},
			controls.ButtonL:      {Code: "KeyQ"},
			controls.ButtonR:      {Code: "KeyW"},
			controls.ButtonStart:  {Code: "Enter"},
			controls.ButtonSelect: {Code: "ShiftRight"},
		},
		P2: PlayerMapping{
			controls.ButtonUp:     {Code: "KeyI"},
			controls.ButtonDown:   {Code: "KeyK"},
			controls.ButtonLeft:   {Code: "KeyJ"},
			controls.ButtonRight:  {Code: "KeyL"},
			controls.ButtonA:      {Code: "KeyH"},
			controls.ButtonB:      {Code: "KeyG"},
			controls.ButtonX:      {Code: "KeyY"},
			controls.ButtonY:      {Code: "KeyT"},
			controls.ButtonL:      {Code: "KeyU"},
			controls.ButtonR:      {Code: "KeyO"},
			controls.ButtonStart:  {Code: "KeyP"},
			controls.ButtonSelect: {Code: "KeyN"},
		},
	}
}
