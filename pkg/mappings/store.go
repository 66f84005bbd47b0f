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

package mappings

import (
	"encoding/json"
	"fmt"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketInput = "input"
	keyMappings = "mappings"
)

// Store persists mappings in a bbolt bucket under a single JSON record:
// {"p1":{"<button>":{"code":...}|null,...},"p2":{...}}. A legacy record
// holding a flat {"<button>":{"code":...}} object (no p1/p2 keys) is
// migrated by treating it as player 1 and defaulting player 2.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (or creates) the mapping database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketInput))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create mapping bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close mapping database: %w", err)
	}
	return nil
}

// Load returns the persisted mappings. A missing or unparseable record, or a
// record missing a player, yields built-in defaults for the affected parts;
// Load never fails.
func (s *Store) Load() Mappings {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInput))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(keyMappings)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to read mapping record, using defaults")
		return Defaults()
	}
	if raw == nil {
		return Defaults()
	}

	return decodeRecord(raw)
}

// Save persists the mappings as a whole. Persistence is best-effort: a
// failure is logged and play continues with the in-memory mappings.
func (s *Store) Save(m Mappings) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode mapping record")
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketInput))
		if err != nil {
			return err
		}
		return b.Put([]byte(keyMappings), data)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save mapping record")
	}
}

// Reset deletes the persisted record and returns the defaults.
func (s *Store) Reset() Mappings {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketInput))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(keyMappings))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete mapping record")
	}
	return Defaults()
}

// decodeRecord parses either the current two-player record shape or the
// legacy flat single-player shape.
func decodeRecord(raw []byte) Mappings {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		log.Warn().Err(err).Msg("corrupt mapping record, using defaults")
		return Defaults()
	}

	_, hasP1 := top["p1"]
	_, hasP2 := top["p2"]
	if !hasP1 && !hasP2 {
		return migrateLegacy(raw)
	}

	var m Mappings
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Warn().Err(err).Msg("corrupt mapping record, using defaults")
		return Defaults()
	}

	defaults := Defaults()
	if m.P1 == nil {
		m.P1 = defaults.P1
	}
	if m.P2 == nil {
		m.P2 = defaults.P2
	}
	return m
}

// migrateLegacy treats a flat {"<button>":{"code":...}} record as player 1's
// mapping and fills player 2 with defaults.
func migrateLegacy(raw []byte) Mappings {
	var flat map[string]*Binding
	if err := json.Unmarshal(raw, &flat); err != nil {
		log.Warn().Err(err).Msg("corrupt legacy mapping record, using defaults")
		return Defaults()
	}

	m := Defaults()
	migrated := false
	for name, bind := range flat {
		button, ok := controls.ParseButton(name)
		if !ok {
			continue
		}
		m.P1[button] = bind
		migrated = true
	}
	if migrated {
		log.Info().Msg("migrated legacy single-player mapping record")
	}
	return m
}
