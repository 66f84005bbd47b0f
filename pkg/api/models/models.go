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

// Package models holds the wire shapes shared by the local API server and
// its clients (the on-screen control overlay).
package models

// Notification methods pushed to connected overlay clients.
const (
	NotificationSessionStatus = "session.status"
)

// Notification is a one-way server-to-client push message.
type Notification struct {
	Params any    `json:"params,omitempty"`
	Method string `json:"method"`
}

// SessionStatusParams describes the session state machine to clients.
type SessionStatusParams struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Touch message types and actions sent by the overlay.
const (
	TouchTypeButton = "button"
	TouchTypeDpad   = "dpad"
	TypePads        = "pads"

	TouchActionDown = "down"
	TouchActionUp   = "up"
	TouchActionMove = "move"
	TouchActionEnd  = "end"
)

// TouchMessage is a pointer event on a virtual on-screen control. Button
// messages carry a control and a down/up action; dpad messages carry the
// contact position within the pad's bounding box.
type TouchMessage struct {
	Type    string  `json:"type"`
	Player  string  `json:"player"`
	Control string  `json:"control,omitempty"`
	Action  string  `json:"action"`
	Pointer int     `json:"pointer"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
}

// PadSampleWire is one gamepad's state in standard layout: digital buttons
// by index, axes in [-1, 1].
type PadSampleWire struct {
	Buttons []bool    `json:"buttons"`
	Axes    []float64 `json:"axes"`
}

// PadsMessage carries the overlay's latest snapshot of every connected
// gamepad, in device order.
type PadsMessage struct {
	Type string          `json:"type"`
	Pads []PadSampleWire `json:"pads"`
}
