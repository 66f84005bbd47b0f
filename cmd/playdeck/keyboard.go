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

package main

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/PlaydeckProject/playdeck-core/pkg/input"
)

// Terminals report presses only, so each press synthesizes its release after
// a short hold. Long enough for the engine to latch the edge, short enough
// that repeated presses still read as distinct taps.
const keyReleaseDelay = 40 * time.Millisecond

// runKeyboard takes over the terminal and feeds key events to the router
// until ctrl-c/ctrl-q or ctx cancellation.
func runKeyboard(ctx context.Context, quit context.CancelFunc, router *input.Router) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal screen: %w", err)
	}
	defer screen.Fini()

	drawBanner(screen)

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go screen.ChannelEvents(events, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyCtrlC || tev.Key() == tcell.KeyCtrlQ {
					quit()
					return nil
				}
				if code, ok := domCode(tev); ok {
					press(router, code)
				}
			case *tcell.EventResize:
				drawBanner(screen)
			}
		}
	}
}

// press emits the down edge now and schedules the matching up edge.
func press(router *input.Router, code string) {
	router.HandleKeyDown(code)
	time.AfterFunc(keyReleaseDelay, func() {
		router.HandleKeyUp(code)
	})
}

// domCode translates a terminal key event to the DOM-style code the mapping
// layer is keyed on. Keys with no sensible code are dropped.
func domCode(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp", true
	case tcell.KeyDown:
		return "ArrowDown", true
	case tcell.KeyLeft:
		return "ArrowLeft", true
	case tcell.KeyRight:
		return "ArrowRight", true
	case tcell.KeyEnter:
		return "Enter", true
	case tcell.KeyEscape:
		return "Escape", true
	case tcell.KeyTab:
		return "Tab", true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "Backspace", true
	case tcell.KeyRune:
		return runeCode(ev.Rune())
	default:
		return "", false
	}
}

func runeCode(r rune) (string, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return "Key" + string(unicode.ToUpper(r)), true
	case r >= 'A' && r <= 'Z':
		return "Key" + string(r), true
	case r >= '0' && r <= '9':
		return "Digit" + string(r), true
	case r == ' ':
		return "Space", true
	case r == ',':
		return "Comma", true
	case r == '.':
		return "Period", true
	case r == ';':
		return "Semicolon", true
	default:
		log.Debug().Msgf("unhandled key rune: %q", r)
		return "", false
	}
}

func drawBanner(screen tcell.Screen) {
	screen.Clear()
	style := tcell.StyleDefault
	lines := []string{
		"playdeck: keyboard capture active",
		"ctrl-c to quit",
	}
	for row, line := range lines {
		for col, r := range line {
			screen.SetContent(col, row, r, nil, style)
		}
	}
	screen.Show()
}
