// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Episode is either a standard numbered episode or a special identified by
// an arbitrary string (OVA, NCED, movie cuts, ...). It serializes untagged:
// a bare JSON number for Standard, a bare JSON string for Special. ParseEpisode
// applies the same numeric-first rule when parsing a regex capture, which is
// what actually determines whether a title lands on a Standard or Special key.
type Episode struct {
	standard bool
	num      uint32
	special  string
}

// EpisodeStandard constructs a numbered Episode.
func EpisodeStandard(n uint32) Episode {
	return Episode{standard: true, num: n}
}

// EpisodeSpecial constructs a named, non-numeric Episode.
func EpisodeSpecial(name string) Episode {
	return Episode{standard: false, special: name}
}

// IsStandard reports whether this is a numbered episode.
func (e Episode) IsStandard() bool { return e.standard }

// Num returns the numeric payload; only meaningful when IsStandard is true.
func (e Episode) Num() uint32 { return e.num }

// Special returns the string payload; only meaningful when IsStandard is false.
func (e Episode) Special() string { return e.special }

// ParseEpisode attempts a numeric parse first; any failure yields a Special.
// It never fails -- an empty or garbage string just becomes its own Special.
func ParseEpisode(s string) Episode {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return EpisodeStandard(uint32(n))
	}
	return EpisodeSpecial(s)
}

// String renders the payload unadorned, used both for display and as the
// component embedded in a pull key.
func (e Episode) String() string {
	if e.standard {
		return strconv.FormatUint(uint64(e.num), 10)
	}
	return e.special
}

// Compare orders Episodes: within the same variant by payload; every
// Standard sorts strictly before every Special.
func (e Episode) Compare(other Episode) int {
	switch {
	case e.standard && other.standard:
		switch {
		case e.num < other.num:
			return -1
		case e.num > other.num:
			return 1
		default:
			return 0
		}
	case e.standard && !other.standard:
		return -1
	case !e.standard && other.standard:
		return 1
	default:
		switch {
		case e.special < other.special:
			return -1
		case e.special > other.special:
			return 1
		default:
			return 0
		}
	}
}

// Less reports whether e sorts strictly before other.
func (e Episode) Less(other Episode) bool { return e.Compare(other) < 0 }

func (e Episode) MarshalJSON() ([]byte, error) {
	if e.standard {
		return json.Marshal(e.num)
	}
	return json.Marshal(e.special)
}

// MarshalText/UnmarshalText let Episode serve as a JSON object key (used by
// SeasonStatus.Episodes), applying the same numeric-first rule as ParseEpisode.
func (e Episode) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Episode) UnmarshalText(text []byte) error {
	*e = ParseEpisode(string(text))
	return nil
}

func (e *Episode) UnmarshalJSON(data []byte) error {
	var num uint32
	if err := json.Unmarshal(data, &num); err == nil {
		*e = EpisodeStandard(num)
		return nil
	}

	var special string
	if err := json.Unmarshal(data, &special); err != nil {
		return fmt.Errorf("episode must be a JSON number or string: %w", err)
	}
	*e = EpisodeSpecial(special)
	return nil
}
