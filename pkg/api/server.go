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

// Package api serves the local control API: a WebSocket endpoint that
// receives virtual-touch pointer events from the on-screen overlay and
// broadcasts session status notifications, plus a small REST surface for
// mapping management.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"

	"github.com/PlaydeckProject/playdeck-core/pkg/api/models"
	"github.com/PlaydeckProject/playdeck-core/pkg/config"
	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/PlaydeckProject/playdeck-core/pkg/input"
	"github.com/PlaydeckProject/playdeck-core/pkg/session"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server is the local control API. It binds to the loopback address from the
// config; the overlay runs on the same machine.
type Server struct {
	cfg     *config.Instance
	input   *input.Router
	session *session.Controller
	ws      *melody.Melody
	httpSrv *http.Server
	pads    *padFeed
}

// NewServer wires the API routes. The server does not listen until Start.
func NewServer(cfg *config.Instance, in *input.Router, ctl *session.Controller) *Server {
	s := &Server{
		cfg:     cfg,
		input:   in,
		session: ctl,
		ws:      melody.New(),
		pads:    &padFeed{},
	}

	s.ws.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	s.ws.HandleConnect(func(sess *melody.Session) {
		id := uuid.New()
		sess.Set("id", id)
		log.Debug().Msgf("overlay client connected: %s", id)
		s.sendSessionStatus(sess)
	})
	s.ws.HandleDisconnect(func(sess *melody.Session) {
		if id, ok := sess.Get("id"); ok {
			log.Debug().Msgf("overlay client disconnected: %s", id)
		}
		// drop the pad snapshot so the poller releases held controls
		s.pads.set(nil)
	})
	s.ws.HandleMessage(s.handleTouchMessage)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		if err := s.ws.HandleRequest(w, req); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Get("/api/v1/session", s.handleSessionStatus)
	r.Get("/api/v1/mappings", s.handleGetMappings)
	r.Post("/api/v1/mappings/capture", s.handleBeginCapture)
	r.Delete("/api/v1/mappings/capture", s.handleCancelCapture)
	r.Delete("/api/v1/mappings/{player}/{control}", s.handleClearBinding)
	r.Post("/api/v1/mappings/reset", s.handleResetMappings)

	s.httpSrv = &http.Server{
		Addr:              cfg.APIAddr(),
		Handler:           r,
		ReadHeaderTimeout: requestTimeout,
	}
	return s
}

// Start serves until ctx is cancelled, broadcasting notifications to all
// connected overlay clients as they arrive.
func (s *Server) Start(ctx context.Context, notices <-chan models.Notification) error {
	go s.broadcastNotifications(ctx, notices)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	log.Info().Msgf("control API listening on %s", s.httpSrv.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.ws.Close(); err != nil {
		log.Debug().Err(err).Msg("failed to close websocket sessions")
	}
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

func (s *Server) broadcastNotifications(ctx context.Context, notices <-chan models.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif := <-notices:
			data, err := json.Marshal(notif)
			if err != nil {
				log.Error().Err(err).Msg("failed to marshal notification")
				continue
			}
			if err := s.ws.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("failed to broadcast notification")
			}
		}
	}
}

func (s *Server) sendSessionStatus(sess *melody.Session) {
	msg, detail := s.session.LastError()
	notif := models.Notification{
		Method: models.NotificationSessionStatus,
		Params: models.SessionStatusParams{
			Status:   string(s.session.Status()),
			Error:    msg,
			Detail:   detail,
			Degraded: s.session.Degraded(),
		},
	}
	data, err := json.Marshal(notif)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal session status")
		return
	}
	if err := sess.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to send session status")
	}
}

// handleTouchMessage routes one overlay pointer message into the input
// router. Malformed messages are logged and dropped; the overlay is lossy by
// nature and a broken client must not take the server down.
func (s *Server) handleTouchMessage(sess *melody.Session, msg []byte) {
	// heartbeat
	if bytes.Equal(msg, []byte("ping")) {
		if err := sess.Write([]byte("pong")); err != nil {
			log.Debug().Err(err).Msg("failed to send pong")
		}
		return
	}

	var tm models.TouchMessage
	if err := json.Unmarshal(msg, &tm); err != nil {
		log.Debug().Err(err).Msg("invalid touch message")
		return
	}

	if tm.Type == models.TypePads {
		s.handlePadsMessage(msg)
		return
	}

	player, ok := parsePlayer(tm.Player)
	if !ok {
		log.Debug().Msgf("touch message for unknown player: %q", tm.Player)
		return
	}

	switch tm.Type {
	case models.TouchTypeButton:
		button, ok := controls.ParseButton(tm.Control)
		if !ok {
			log.Debug().Msgf("touch message for unknown control: %q", tm.Control)
			return
		}
		switch tm.Action {
		case models.TouchActionDown:
			s.input.VirtualButtonDown(player, button)
		case models.TouchActionUp, models.TouchActionEnd:
			s.input.VirtualButtonUp(player, button)
		}
	case models.TouchTypeDpad:
		switch tm.Action {
		case models.TouchActionDown, models.TouchActionMove:
			s.input.VirtualDpadMove(player, tm.Pointer, tm.X, tm.Y, tm.W, tm.H)
		case models.TouchActionUp, models.TouchActionEnd:
			s.input.VirtualDpadEnd(player, tm.Pointer)
		}
	default:
		log.Debug().Msgf("unknown touch message type: %q", tm.Type)
	}
}

func (s *Server) handlePadsMessage(msg []byte) {
	var pm models.PadsMessage
	if err := json.Unmarshal(msg, &pm); err != nil {
		log.Debug().Err(err).Msg("invalid pads message")
		return
	}

	samples := make([]input.PadSample, len(pm.Pads))
	for i, p := range pm.Pads {
		samples[i] = input.PadSample{Buttons: p.Buttons, Axes: p.Axes}
	}
	s.pads.set(samples)
}

// PadSource exposes the overlay's gamepad snapshots as a source for the
// router's poll loop.
func (s *Server) PadSource() input.GamepadSource {
	return s.pads
}

func parsePlayer(s string) (controls.Player, bool) {
	p := controls.Player(s)
	for _, known := range controls.Players() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

type sessionStatusBody struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Degraded bool   `json:"degraded"`
	Ready    bool   `json:"ready"`
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, _ *http.Request) {
	msg, detail := s.session.LastError()
	writeJSON(w, sessionStatusBody{
		Status:   string(s.session.Status()),
		Error:    msg,
		Detail:   detail,
		Degraded: s.session.Degraded(),
		Ready:    s.session.Ready(),
	})
}

func (s *Server) handleGetMappings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.input.Mappings())
}

type captureBody struct {
	Player  string `json:"player"`
	Control string `json:"control"`
}

func (s *Server) handleBeginCapture(w http.ResponseWriter, req *http.Request) {
	var body captureBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, ok := parsePlayer(body.Player)
	if !ok {
		http.Error(w, "unknown player", http.StatusBadRequest)
		return
	}
	button, ok := controls.ParseButton(body.Control)
	if !ok {
		http.Error(w, "unknown control", http.StatusBadRequest)
		return
	}

	s.input.BeginCapture(player, button)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelCapture(w http.ResponseWriter, _ *http.Request) {
	s.input.CancelCapture()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearBinding(w http.ResponseWriter, req *http.Request) {
	player, ok := parsePlayer(chi.URLParam(req, "player"))
	if !ok {
		http.Error(w, "unknown player", http.StatusBadRequest)
		return
	}
	button, ok := controls.ParseButton(chi.URLParam(req, "control"))
	if !ok {
		http.Error(w, "unknown control", http.StatusBadRequest)
		return
	}

	s.input.ClearBinding(player, button)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetMappings(w http.ResponseWriter, _ *http.Request) {
	s.input.ResetMappings()
	writeJSON(w, s.input.Mappings())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
