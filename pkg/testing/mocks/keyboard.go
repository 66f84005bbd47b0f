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

package mocks

// MockKeyboard implements the uinput sink's keyboard device for testing.
// It records all key presses for verification in tests.
type MockKeyboard struct {
	KeyDownCalls []int
	KeyUpCalls   []int
	Closed       bool
}

// NewMockKeyboard creates a new MockKeyboard instance.
func NewMockKeyboard() *MockKeyboard {
	return &MockKeyboard{}
}

// KeyDown records a key down event.
func (m *MockKeyboard) KeyDown(key int) error {
	m.KeyDownCalls = append(m.KeyDownCalls, key)
	return nil
}

// KeyUp records a key up event.
func (m *MockKeyboard) KeyUp(key int) error {
	m.KeyUpCalls = append(m.KeyUpCalls, key)
	return nil
}

// Close marks the device closed.
func (m *MockKeyboard) Close() error {
	m.Closed = true
	return nil
}

// Reset clears all recorded calls.
func (m *MockKeyboard) Reset() {
	m.KeyDownCalls = nil
	m.KeyUpCalls = nil
}
