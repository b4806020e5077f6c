// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package parser applies a profile's named-capture regex to a release title
// to produce a domain.StandardEpisode.
package parser

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/nyauser/nyauser/internal/domain"
)

var errNotNumeric = errors.New("parser: value is not a non-negative integer")

// CompileRegex compiles a profile's parse_regex. Go's standard regexp
// package supports named captures via (?P<name>...), which is exactly the
// capability this parser depends on -- there is no third-party regex
// engine in the retrieved pack that offers anything beyond what regexp
// already provides here, so this one component is deliberately stdlib
// (see DESIGN.md).
func CompileRegex(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

// ParseName matches title against re and, on a match, builds a
// StandardEpisode from its named captures. It returns ok=false when the
// regex does not match, or when a "season" or "checksum" capture matched
// but could not be decoded -- per spec, an "episode" capture that fails to
// parse numerically is not an error: it falls through to a Special episode.
//
// Unknown capture group names are preserved verbatim in StandardEpisode.Ext
// rather than rejected, so profiles are free to capture provider-specific
// metadata without this package knowing about it in advance.
func ParseName(re *regexp.Regexp, title string) (domain.StandardEpisode, bool) {
	out := domain.StandardEpisode{
		Season: 1,
		Ext:    map[string]string{},
	}

	idx := re.FindStringSubmatchIndex(title)
	if idx == nil {
		return domain.StandardEpisode{}, false
	}

	names := re.SubexpNames()
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		if start == -1 {
			// group did not participate in the match
			continue
		}
		value := title[start:end]

		switch name {
		case "title":
			out.Title = value
		case "season":
			season, err := parseUint32(value)
			if err != nil {
				return domain.StandardEpisode{}, false
			}
			out.Season = season
		case "episode":
			out.Episode = domain.ParseEpisode(value)
		case "checksum":
			checksum, ok := parseChecksum(value)
			if !ok {
				return domain.StandardEpisode{}, false
			}
			out.Checksum = checksum
		default:
			out.Ext[name] = value
		}
	}

	return out, true
}

func parseUint32(s string) (uint32, error) {
	if len(s) == 0 {
		return 0, errNotNumeric
	}
	var v uint64
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, errNotNumeric
		}
		v = v*10 + uint64(c-'0')
		if v > 1<<32-1 {
			return 0, errNotNumeric
		}
	}
	return uint32(v), nil
}

// parseChecksum decodes value as hex bytes and interprets them as a
// little-endian uint32; any non-hex input or a decoded length other than
// 4 bytes is a failure.
func parseChecksum(value string) (uint32, bool) {
	raw, err := hex.DecodeString(value)
	if err != nil || len(raw) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(raw), true
}
