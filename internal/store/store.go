// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package store is the durable, ordered key-value map the rest of nyauser
// persists all state through. It supports point get/put/delete and
// prefix-ordered scans; it has no notion of profiles, series or pulls --
// those semantics live in internal/models.
package store

import (
	"bytes"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// rootBucket is the single bbolt bucket nyauser's flat key namespace lives in.
// bbolt requires at least one bucket; one flat bucket matches the sled-style
// single-namespace store the core was modeled on.
var rootBucket = []byte("nyauser")

// Store wraps a bbolt database file as a flat, ordered byte-string map.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init store %q: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes key to value, overwriting any existing value.
func (s *Store) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(rootBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored at key, or (nil, false) if absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(rootBucket).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, value != nil, nil
}

// Has reports whether key exists.
func (s *Store) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(rootBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Entry is one (key, value) pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// ScanPrefix returns every entry whose key starts with prefix, in key order.
// Prefix scans are the store's only enumeration primitive.
func (s *Store) ScanPrefix(prefix string) ([]Entry, error) {
	var out []Entry
	prefixBytes := []byte(prefix)

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(rootBucket).Cursor()
		for k, v := c.Seek(prefixBytes); k != nil && bytes.HasPrefix(k, prefixBytes); k, v = c.Next() {
			out = append(out, Entry{Key: string(k), Value: append([]byte(nil), v...)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	return out, nil
}

// Flush is a no-op for bbolt, whose Update transactions are already
// synchronously durable on commit. It exists so callers written against the
// async-flush contract of spec.md section 4.1 (lifted from the sled-backed
// original) have a stable call site regardless of backing engine.
func (s *Store) Flush() error {
	return nil
}
