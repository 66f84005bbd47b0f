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

// Package process runs an external emulation engine as a child process and
// speaks a newline-delimited JSON protocol on its stdin/stdout. One request
// line gets exactly one response line; the ROM payload and state blobs ride
// along base64-encoded.
package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/PlaydeckProject/playdeck-core/pkg/engine"
	"github.com/PlaydeckProject/playdeck-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

const exitGrace = 3 * time.Second

// Engine launches an external engine binary per session.
type Engine struct {
	Command string
	Args    []string
}

// New returns an engine that runs the given command for each session.
func New(command string, args ...string) *Engine {
	return &Engine{Command: command, Args: args}
}

type request struct {
	Op      string `json:"op"`
	Core    string `json:"core,omitempty"`
	Name    string `json:"name,omitempty"`
	Rom     []byte `json:"rom,omitempty"`
	Control string `json:"control,omitempty"`
	State   []byte `json:"state,omitempty"`
	Player  int    `json:"player"`
	LowSpec bool   `json:"low_spec,omitempty"`
}

type response struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	State  []byte `json:"state,omitempty"`
	OK     bool   `json:"ok"`
}

// Launch starts the engine process and sends the load request. ctx bounds
// only the startup handshake; a running game is never killed by a deadline.
func (e *Engine) Launch(ctx context.Context, cfg engine.Config) (engine.Handle, error) {
	//nolint:gosec // intentional: runs the user-configured engine binary
	cmd := exec.Command(e.Command, e.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open engine stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start engine process: %w", err)
	}

	h := newHandle(stdin, stdout, cmd)

	type loadResult struct {
		err error
	}
	done := make(chan loadResult, 1)
	go func() {
		_, err := h.roundTrip(request{
			Op:      "load",
			Core:    cfg.CoreID,
			Name:    cfg.RomName,
			Rom:     cfg.Rom,
			LowSpec: cfg.LowSpec,
		})
		done <- loadResult{err: err}
	}()

	select {
	case <-ctx.Done():
		_ = h.Exit()
		return nil, fmt.Errorf("engine launch cancelled: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			_ = h.Exit()
			return nil, res.err
		}
	}

	return h, nil
}

// handle is a live engine process. All protocol traffic is serialized
// through mu, so responses always pair with their requests.
type handle struct {
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	cmd    *exec.Cmd
	mu     syncutil.Mutex
	exited bool
}

func newHandle(stdin io.WriteCloser, stdout io.Reader, cmd *exec.Cmd) *handle {
	return &handle{
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(stdout),
		cmd:   cmd,
	}
}

func (h *handle) roundTrip(req request) (*response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.exited {
		return nil, errors.New("engine already exited")
	}

	if err := h.enc.Encode(&req); err != nil {
		return nil, fmt.Errorf("failed to send %s to engine: %w", req.Op, err)
	}

	var resp response
	if err := h.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read engine response to %s: %w", req.Op, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("engine rejected %s: %s", req.Op, resp.Error)
	}
	return &resp, nil
}

func (h *handle) Press(button controls.Button, player int) error {
	_, err := h.roundTrip(request{Op: "press", Control: string(button), Player: player})
	return err
}

func (h *handle) Release(button controls.Button, player int) error {
	_, err := h.roundTrip(request{Op: "release", Control: string(button), Player: player})
	return err
}

func (h *handle) Status() (string, error) {
	resp, err := h.roundTrip(request{Op: "status"})
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (h *handle) SaveState() ([]byte, error) {
	resp, err := h.roundTrip(request{Op: "save_state"})
	if err != nil {
		return nil, err
	}
	return resp.State, nil
}

func (h *handle) LoadState(blob []byte) error {
	_, err := h.roundTrip(request{Op: "load_state", State: blob})
	return err
}

// Exit asks the engine to quit, then reaps the process, killing it after a
// grace period. Safe to call multiple times.
func (h *handle) Exit() error {
	h.mu.Lock()
	if h.exited {
		h.mu.Unlock()
		return nil
	}
	h.exited = true

	// best-effort: the process may already be gone
	if err := h.enc.Encode(&request{Op: "exit"}); err != nil {
		log.Debug().Err(err).Msg("failed to send exit to engine")
	}
	_ = h.stdin.Close()
	h.mu.Unlock()

	if h.cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			log.Debug().Err(err).Msg("engine process exited with error")
		}
	case <-time.After(exitGrace):
		log.Warn().Msg("engine did not exit in time, killing")
		if err := h.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill engine process: %w", err)
		}
		<-done
	}
	return nil
}
