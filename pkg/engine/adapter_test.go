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

package engine

import (
	"testing"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareHandle supports nothing but Exit.
type bareHandle struct{ exited bool }

func (h *bareHandle) Exit() error {
	h.exited = true
	return nil
}

// inputHandle additionally accepts input.
type inputHandle struct {
	bareHandle
	presses  []controls.Button
	releases []controls.Button
}

func (h *inputHandle) Press(b controls.Button, _ int) error {
	h.presses = append(h.presses, b)
	return nil
}

func (h *inputHandle) Release(b controls.Button, _ int) error {
	h.releases = append(h.releases, b)
	return nil
}

func TestAdapter_BareHandleDegradesEverything(t *testing.T) {
	t.Parallel()

	h := &bareHandle{}
	a := NewAdapter(h)

	assert.False(t, a.HasInput())
	assert.False(t, a.HasStatus())
	assert.False(t, a.HasState())

	// input degrades to a no-op, never an error
	require.NoError(t, a.Press(controls.ButtonA, 0))
	require.NoError(t, a.Release(controls.ButtonA, 0))

	// state and status are explicit unsupported outcomes
	_, err := a.Status()
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = a.SaveState()
	require.ErrorIs(t, err, ErrUnsupported)
	require.ErrorIs(t, a.LoadState(nil), ErrUnsupported)

	require.NoError(t, a.Exit())
	assert.True(t, h.exited)
}

func TestAdapter_NegotiatesInputOnce(t *testing.T) {
	t.Parallel()

	h := &inputHandle{}
	a := NewAdapter(h)

	assert.True(t, a.HasInput())
	require.NoError(t, a.Press(controls.ButtonStart, 1))
	require.NoError(t, a.Release(controls.ButtonStart, 1))
	assert.Equal(t, []controls.Button{controls.ButtonStart}, h.presses)
	assert.Equal(t, []controls.Button{controls.ButtonStart}, h.releases)
}
