// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package store

import (
	"encoding/json"
	"fmt"
)

// GetSerde reads "<prefix>-<name>" and JSON-decodes it into T. It returns
// (zero, false, nil) when the key is absent.
func GetSerde[T any](s *Store, prefix, name string) (T, bool, error) {
	var out T

	raw, ok, err := s.Get(prefix + "-" + name)
	if err != nil {
		return out, false, err
	}
	if !ok {
		return out, false, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode %s-%s: %w", prefix, name, err)
	}
	return out, true, nil
}

// PutSerde JSON-encodes value and writes it to "<prefix>-<name>".
func PutSerde[T any](s *Store, prefix, name string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s-%s: %w", prefix, name, err)
	}
	return s.Put(prefix+"-"+name, raw)
}

// ListSerde scans every key starting with scanPrefix and JSON-decodes each
// value as T, failing the whole call on any single decode error.
func ListSerde[T any](s *Store, scanPrefix string) ([]T, error) {
	entries, err := s.ScanPrefix(scanPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
