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

package process

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePeer speaks the engine side of the protocol over in-memory pipes.
func fakePeer(t *testing.T, respond func(req request) response) *handle {
	t.Helper()

	inR, inW := io.Pipe()   // handle writes requests here
	outR, outW := io.Pipe() // handle reads responses here

	go func() {
		dec := json.NewDecoder(inR)
		enc := json.NewEncoder(outW)
		for {
			var req request
			if err := dec.Decode(&req); err != nil {
				_ = outW.Close()
				return
			}
			if req.Op == "exit" {
				_ = outW.Close()
				return
			}
			if err := enc.Encode(respond(req)); err != nil {
				return
			}
		}
	}()

	return newHandle(inW, outR, nil)
}

func TestHandle_PressReleaseProtocol(t *testing.T) {
	t.Parallel()

	var ops []string
	h := fakePeer(t, func(req request) response {
		ops = append(ops, req.Op+":"+req.Control)
		return response{OK: true}
	})

	require.NoError(t, h.Press(controls.ButtonA, 0))
	require.NoError(t, h.Release(controls.ButtonA, 0))
	assert.Equal(t, []string{"press:a", "release:a"}, ops)
	require.NoError(t, h.Exit())
}

func TestHandle_StatusAndState(t *testing.T) {
	t.Parallel()

	h := fakePeer(t, func(req request) response {
		switch req.Op {
		case "status":
			return response{OK: true, Status: "ready"}
		case "save_state":
			return response{OK: true, State: []byte{1, 2, 3}}
		case "load_state":
			return response{OK: len(req.State) == 3}
		default:
			return response{OK: false, Error: "unknown op"}
		}
	})

	status, err := h.Status()
	require.NoError(t, err)
	assert.Equal(t, "ready", status)

	blob, err := h.SaveState()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, blob)

	require.NoError(t, h.LoadState(blob))
	require.NoError(t, h.Exit())
}

func TestHandle_RejectionBecomesError(t *testing.T) {
	t.Parallel()

	h := fakePeer(t, func(_ request) response {
		return response{OK: false, Error: "bad core"}
	})

	err := h.Press(controls.ButtonB, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad core")
	require.NoError(t, h.Exit())
}

func TestHandle_ExitIsIdempotent(t *testing.T) {
	t.Parallel()

	h := fakePeer(t, func(_ request) response { return response{OK: true} })

	require.NoError(t, h.Exit())
	require.NoError(t, h.Exit())

	// traffic after exit fails cleanly rather than hanging
	require.Error(t, h.Press(controls.ButtonA, 0))
}
