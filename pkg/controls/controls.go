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

// Package controls defines the logical pad controls shared by the input
// router, the mapping store and the session controller. These are abstract
// control names, independent of whatever physical device produced them.
package controls

// Button is a logical pad control, independent of physical input device.
type Button string

const (
	ButtonUp     Button = "up"
	ButtonDown   Button = "down"
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonA      Button = "a"
	ButtonB      Button = "b"
	ButtonX      Button = "x"
	ButtonY      Button = "y"
	ButtonL      Button = "l"
	ButtonR      Button = "r"
	ButtonStart  Button = "start"
	ButtonSelect Button = "select"
)

// Buttons returns every logical button in a stable order, directions first.
func Buttons() []Button {
	return []Button{
		ButtonUp, ButtonDown, ButtonLeft, ButtonRight,
		ButtonA, ButtonB, ButtonX, ButtonY,
		ButtonL, ButtonR,
		ButtonStart, ButtonSelect,
	}
}

// ParseButton looks up a logical button by its string name.
func ParseButton(s string) (Button, bool) {
	for _, b := range Buttons() {
		if string(b) == s {
			return b, true
		}
	}
	return "", false
}

// Player identifies one of the two supported players.
type Player string

const (
	Player1 Player = "p1"
	Player2 Player = "p2"
)

// Players returns both players in order.
func Players() []Player {
	return []Player{Player1, Player2}
}

// Index returns the zero-based player index used by engine input calls.
func (p Player) Index() int {
	if p == Player2 {
		return 1
	}
	return 0
}

// Transition is the direction of a control state change.
type Transition string

const (
	TransitionDown Transition = "down"
	TransitionUp   Transition = "up"
)

// Event is a normalized input event as consumed by the session controller.
// Events are delivered in capture order and must never be reordered, since
// edge timing is gameplay-relevant.
type Event struct {
	Button     Button     `json:"control"`
	Transition Transition `json:"transition"`
	Player     Player     `json:"player"`
}
