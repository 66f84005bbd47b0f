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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlaydeckProject/playdeck-core/pkg/api/models"
	"github.com/PlaydeckProject/playdeck-core/pkg/config"
	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/PlaydeckProject/playdeck-core/pkg/input"
	"github.com/PlaydeckProject/playdeck-core/pkg/mappings"
	"github.com/PlaydeckProject/playdeck-core/pkg/session"
)

func newTestServer(t *testing.T) (*Server, *input.Router) {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)

	store, err := mappings.OpenStore(filepath.Join(dir, config.InputDbFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	router := input.NewRouter(cfg, store, clockwork.NewFakeClock())
	ctl, _ := session.NewController(cfg, nil)
	return NewServer(cfg, router, ctl), router
}

// drain collects every event already sitting in the router's channel.
func drain(r *input.Router) []controls.Event {
	var evs []controls.Event
	for {
		select {
		case ev := <-r.Events():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func touchJSON(t *testing.T, tm models.TouchMessage) []byte {
	t.Helper()
	data, err := json.Marshal(tm)
	require.NoError(t, err)
	return data
}

func TestTouchMessage_ButtonDownUp(t *testing.T) {
	t.Parallel()

	s, router := newTestServer(t)

	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeButton, Player: "p1", Control: "a", Action: models.TouchActionDown,
	}))
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeButton, Player: "p1", Control: "a", Action: models.TouchActionUp,
	}))

	assert.Equal(t, []controls.Event{
		{Button: controls.ButtonA, Transition: controls.TransitionDown, Player: controls.Player1},
		{Button: controls.ButtonA, Transition: controls.TransitionUp, Player: controls.Player1},
	}, drain(router))
}

func TestTouchMessage_DpadDrag(t *testing.T) {
	t.Parallel()

	s, router := newTestServer(t)

	// contact in the top third presses up, end releases it
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeDpad, Player: "p2", Action: models.TouchActionMove,
		Pointer: 7, X: 50, Y: 10, W: 100, H: 100,
	}))
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeDpad, Player: "p2", Action: models.TouchActionEnd, Pointer: 7,
	}))

	assert.Equal(t, []controls.Event{
		{Button: controls.ButtonUp, Transition: controls.TransitionDown, Player: controls.Player2},
		{Button: controls.ButtonUp, Transition: controls.TransitionUp, Player: controls.Player2},
	}, drain(router))
}

func TestTouchMessage_MalformedIgnored(t *testing.T) {
	t.Parallel()

	s, router := newTestServer(t)

	s.handleTouchMessage(nil, []byte("{not json"))
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeButton, Player: "p3", Control: "a", Action: models.TouchActionDown,
	}))
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: models.TouchTypeButton, Player: "p1", Control: "turbo", Action: models.TouchActionDown,
	}))
	s.handleTouchMessage(nil, touchJSON(t, models.TouchMessage{
		Type: "gesture", Player: "p1", Control: "a", Action: models.TouchActionDown,
	}))

	assert.Empty(t, drain(router))
}

func TestPadsMessage_FeedsPadSource(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	assert.Empty(t, s.PadSource().Sample())

	s.handleTouchMessage(nil, []byte(`{"type":"pads","pads":[{"buttons":[true,false],"axes":[0.9,0]}]}`))

	samples := s.PadSource().Sample()
	require.Len(t, samples, 1)
	assert.Equal(t, []bool{true, false}, samples[0].Buttons)
	assert.InDelta(t, 0.9, samples[0].Axes[0], 1e-9)
}

func TestRest_SessionStatusIdle(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body sessionStatusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "idle", body.Status)
	assert.False(t, body.Ready)
}

func TestRest_CaptureLifecycle(t *testing.T) {
	t.Parallel()

	s, router := newTestServer(t)

	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/api/v1/mappings/capture",
		strings.NewReader(`{"player":"p2","control":"start"}`),
	))
	require.Equal(t, http.StatusNoContent, rec.Code)

	pending, ok := router.PendingCapture()
	require.True(t, ok)
	assert.Equal(t, controls.Player2, pending.Player)
	assert.Equal(t, controls.ButtonStart, pending.Button)

	rec = httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodDelete, "/api/v1/mappings/capture", nil,
	))
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = router.PendingCapture()
	assert.False(t, ok)
}

func TestRest_CaptureRejectsUnknownControl(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/api/v1/mappings/capture",
		strings.NewReader(`{"player":"p1","control":"turbo"}`),
	))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRest_ClearAndResetMappings(t *testing.T) {
	t.Parallel()

	s, router := newTestServer(t)

	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodDelete, "/api/v1/mappings/p1/a", nil,
	))
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, bound := router.Mappings().P1.Lookup("KeyX")
	assert.False(t, bound)

	rec = httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/api/v1/mappings/reset", nil,
	))
	require.Equal(t, http.StatusOK, rec.Code)
	b, bound := router.Mappings().P1.Lookup("KeyX")
	require.True(t, bound)
	assert.Equal(t, controls.ButtonA, b)
}

func TestRest_GetMappingsShape(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/mappings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "p1")
	assert.Contains(t, body, "p2")
}
