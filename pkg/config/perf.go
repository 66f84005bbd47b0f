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

package config

import (
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Devices with less memory than this (or very few cores) get the constrained
// performance profile: engines are asked to trade accuracy for speed.
const (
	constrainedMemoryMB = 2048
	constrainedCPUCount = 2
)

// PerformanceProfile describes the host's capability tier. It is resolved
// once per process and shared by every session, so all call sites agree on
// whether the device is constrained.
type PerformanceProfile struct {
	TotalMemoryMB uint64
	CPUCount      int
	Constrained   bool
}

// Performance returns the host performance profile, resolving it on first
// call. Detection failures fall back to the unconstrained profile and are
// logged, never fatal.
func (c *Instance) Performance() PerformanceProfile {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.perf != nil {
		return *c.perf
	}

	perf := resolvePerformance()
	c.perf = &perf
	log.Info().
		Uint64("memory_mb", perf.TotalMemoryMB).
		Int("cpus", perf.CPUCount).
		Bool("constrained", perf.Constrained).
		Msg("resolved host performance profile")
	return perf
}

func resolvePerformance() PerformanceProfile {
	var perf PerformanceProfile

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read host memory, assuming unconstrained")
	} else {
		perf.TotalMemoryMB = vm.Total / (1024 * 1024)
	}

	count, err := cpu.Counts(true)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count host cpus, assuming unconstrained")
	} else {
		perf.CPUCount = count
	}

	if perf.TotalMemoryMB > 0 && perf.TotalMemoryMB < constrainedMemoryMB {
		perf.Constrained = true
	}
	if perf.CPUCount > 0 && perf.CPUCount <= constrainedCPUCount {
		perf.Constrained = true
	}

	return perf
}
