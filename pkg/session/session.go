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

// Package session owns the lifecycle of a single emulation session: launching
// an engine for an ingested game, watching its readiness, feeding it control
// input, and tearing it down.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/PlaydeckProject/playdeck-core/pkg/api/models"
	"github.com/PlaydeckProject/playdeck-core/pkg/config"
	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/PlaydeckProject/playdeck-core/pkg/engine"
	"github.com/PlaydeckProject/playdeck-core/pkg/helpers/syncutil"
	"github.com/PlaydeckProject/playdeck-core/pkg/ingest"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const notificationBuffer = 32

// Status is the session state machine's current phase.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusRunning Status = "running"
	StatusError   Status = "error"
)

var (
	// ErrLaunchInFlight is returned when a launch overlaps another.
	ErrLaunchInFlight = errors.New("a launch is already in progress")
	// ErrNotRunning is returned for operations that need a live session.
	ErrNotRunning = errors.New("no session is running")
)

// Controller drives the session state machine. At most one engine session is
// live at a time; launching a new game releases the previous one first.
//
// LOCKING RULES: mu guards all mutable fields. Engine calls (launch, exit,
// protocol traffic) and notification sends happen outside the lock, so a slow
// engine never blocks readers of the session state.
type Controller struct {
	cfg     *config.Instance
	eng     engine.Engine
	clock   clockwork.Clock
	notices chan models.Notification

	mu           syncutil.Mutex
	status       Status
	adapter      *engine.Adapter
	launching    bool
	ready        bool
	degraded     bool
	errMsg       string
	errDetail    string
	statusCancel context.CancelFunc
}

// NewController returns an idle controller and the channel its status
// notifications are pushed on.
func NewController(cfg *config.Instance, eng engine.Engine) (*Controller, <-chan models.Notification) {
	c := &Controller{
		cfg:     cfg,
		eng:     eng,
		clock:   clockwork.NewRealClock(),
		status:  StatusIdle,
		notices: make(chan models.Notification, notificationBuffer),
	}
	return c, c.notices
}

// Status returns the current phase.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the stored error summary and detail from a failed launch.
func (c *Controller) LastError() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg, c.errDetail
}

// Ready reports whether the engine has confirmed readiness.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Degraded reports whether the session runs without readiness confirmation.
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Launch starts an engine session for an ingested game. Any previous session
// is released first. A second launch while one is still in flight is
// rejected; a failed launch leaves the controller in the error phase and a
// later launch may retry.
func (c *Controller) Launch(ctx context.Context, res *ingest.Result) error {
	c.mu.Lock()
	if c.launching {
		c.mu.Unlock()
		return ErrLaunchInFlight
	}
	c.launching = true
	prior := c.adapter
	priorCancel := c.statusCancel
	c.adapter = nil
	c.statusCancel = nil
	c.status = StatusLoading
	c.ready = false
	c.degraded = false
	c.errMsg = ""
	c.errDetail = ""
	c.mu.Unlock()

	c.notifyStatus()

	if priorCancel != nil {
		priorCancel()
	}
	if prior != nil {
		if err := prior.Exit(); err != nil {
			log.Warn().Err(err).Msg("failed to exit previous engine session")
		}
	}

	ecfg := engine.Config{
		CoreID:  res.Profile.EngineCoreID,
		RomName: res.SourceName,
		Rom:     res.Payload,
		LowSpec: c.cfg.Performance().Constrained,
	}

	log.Info().Msgf("launching %s on core %s", res.SourceName, ecfg.CoreID)
	h, err := c.eng.Launch(ctx, ecfg)
	if err != nil {
		c.mu.Lock()
		c.launching = false
		c.status = StatusError
		c.errMsg = "failed to start emulation engine"
		c.errDetail = err.Error()
		c.mu.Unlock()
		c.notifyStatus()
		return fmt.Errorf("failed to launch engine: %w", err)
	}

	adapter := engine.NewAdapter(h)
	pollCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.launching = false
	c.adapter = adapter
	c.status = StatusRunning
	c.statusCancel = cancel
	c.mu.Unlock()

	c.notifyStatus()
	go c.watchReadiness(pollCtx, adapter)
	return nil
}

// watchReadiness polls the engine until it reports ready or the timeout
// passes. Timeout marks the session degraded but never tears it down.
func (c *Controller) watchReadiness(ctx context.Context, a *engine.Adapter) {
	if !a.HasStatus() {
		log.Debug().Msg("engine reports no status, session readiness unknown")
		c.markDegraded()
		return
	}

	ticker := c.clock.NewTicker(c.cfg.StatusInterval())
	defer ticker.Stop()
	deadline := c.clock.After(c.cfg.ReadyTimeout())

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			log.Warn().Msg("engine never reported ready, continuing degraded")
			c.markDegraded()
			return
		case <-ticker.Chan():
			status, err := a.Status()
			if err != nil {
				log.Debug().Err(err).Msg("engine status poll failed")
				continue
			}
			if status == engine.StatusReady {
				c.markReady()
				return
			}
		}
	}
}

func (c *Controller) markReady() {
	c.mu.Lock()
	changed := !c.ready && c.status == StatusRunning
	if changed {
		c.ready = true
	}
	c.mu.Unlock()
	if changed {
		log.Info().Msg("engine session ready")
		c.notifyStatus()
	}
}

func (c *Controller) markDegraded() {
	c.mu.Lock()
	changed := !c.degraded && c.status == StatusRunning
	if changed {
		c.degraded = true
	}
	c.mu.Unlock()
	if changed {
		c.notifyStatus()
	}
}

// ForwardInput delivers a control transition to the engine. Input outside the
// running phase is dropped.
func (c *Controller) ForwardInput(ev controls.Event) {
	c.mu.Lock()
	a := c.adapter
	running := c.status == StatusRunning
	c.mu.Unlock()

	if !running || a == nil {
		return
	}

	var err error
	switch ev.Transition {
	case controls.TransitionDown:
		err = a.Press(ev.Button, ev.Player.Index())
	case controls.TransitionUp:
		err = a.Release(ev.Button, ev.Player.Index())
	}
	if err != nil {
		log.Debug().Err(err).Msgf("failed to forward %s %s", ev.Button, ev.Transition)
	}
}

// Run consumes control events until the channel closes or ctx is cancelled,
// forwarding each in arrival order.
func (c *Controller) Run(ctx context.Context, events <-chan controls.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.ForwardInput(ev)
		}
	}
}

// SaveState snapshots the running session's emulation state.
func (c *Controller) SaveState() ([]byte, error) {
	c.mu.Lock()
	a := c.adapter
	running := c.status == StatusRunning
	c.mu.Unlock()

	if !running || a == nil {
		return nil, ErrNotRunning
	}
	return a.SaveState()
}

// LoadState restores emulation state into the running session.
func (c *Controller) LoadState(blob []byte) error {
	c.mu.Lock()
	a := c.adapter
	running := c.status == StatusRunning
	c.mu.Unlock()

	if !running || a == nil {
		return ErrNotRunning
	}
	return a.LoadState(blob)
}

// Teardown stops readiness polling, exits the engine, and returns the
// controller to idle. Safe to call multiple times.
func (c *Controller) Teardown() {
	c.mu.Lock()
	cancel := c.statusCancel
	a := c.adapter
	wasIdle := c.status == StatusIdle && a == nil
	c.statusCancel = nil
	c.adapter = nil
	c.status = StatusIdle
	c.launching = false
	c.ready = false
	c.degraded = false
	c.errMsg = ""
	c.errDetail = ""
	c.mu.Unlock()

	if wasIdle {
		return
	}
	if cancel != nil {
		cancel()
	}
	if a != nil {
		if err := a.Exit(); err != nil {
			log.Warn().Err(err).Msg("failed to exit engine session")
		}
	}
	c.notifyStatus()
}

// notifyStatus pushes the current state to the notification channel. Pushes
// never block; a stalled consumer loses notifications, not the session.
func (c *Controller) notifyStatus() {
	c.mu.Lock()
	params := models.SessionStatusParams{
		Status:   string(c.status),
		Error:    c.errMsg,
		Detail:   c.errDetail,
		Degraded: c.degraded,
	}
	c.mu.Unlock()

	select {
	case c.notices <- models.Notification{
		Method: models.NotificationSessionStatus,
		Params: params,
	}:
	default:
		log.Debug().Msg("session notification dropped, consumer not keeping up")
	}
}
