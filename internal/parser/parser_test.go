// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameBasic(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^\[Group\] (?P<title>.+) - (?P<episode>\d+) \[(?P<checksum>[0-9A-Fa-f]{8})\]\.mkv$`)
	require.NoError(t, err)

	parsed, ok := ParseName(re, "[Group] Example Show - 07 [12345678].mkv")
	require.True(t, ok)
	assert.Equal(t, "Example Show", parsed.Title)
	assert.Equal(t, uint32(1), parsed.Season)
	assert.Equal(t, uint32(7), parsed.Episode.Num())
	assert.True(t, parsed.Episode.IsStandard())
	assert.NotZero(t, parsed.Checksum)
}

func TestParseNameNoMatch(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^\[Group\] (?P<title>.+)\.mkv$`)
	require.NoError(t, err)

	_, ok := ParseName(re, "completely unrelated title.mp4")
	assert.False(t, ok)
}

func TestParseNameSeasonCapture(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) S(?P<season>\d+)E(?P<episode>\d+)$`)
	require.NoError(t, err)

	parsed, ok := ParseName(re, "Example Show S02E05")
	require.True(t, ok)
	assert.Equal(t, uint32(2), parsed.Season)
	assert.Equal(t, uint32(5), parsed.Episode.Num())
}

func TestParseNameInvalidSeasonFailsWhole(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) S(?P<season>[A-Za-z]+)E(?P<episode>\d+)$`)
	require.NoError(t, err)

	_, ok := ParseName(re, "Example Show SXE05")
	assert.False(t, ok)
}

func TestParseNameNonNumericEpisodeBecomesSpecial(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) - (?P<episode>.+)$`)
	require.NoError(t, err)

	parsed, ok := ParseName(re, "Example Show - OVA")
	require.True(t, ok)
	assert.False(t, parsed.Episode.IsStandard())
	assert.Equal(t, "OVA", parsed.Episode.Special())
}

func TestParseNameInvalidChecksumFailsWhole(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) \[(?P<checksum>.+)\]$`)
	require.NoError(t, err)

	_, ok := ParseName(re, "Example Show [zzz]")
	assert.False(t, ok)
}

func TestParseNameUnknownGroupGoesToExt(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) \[(?P<res>\d+p)\]$`)
	require.NoError(t, err)

	parsed, ok := ParseName(re, "Example Show [1080p]")
	require.True(t, ok)
	assert.Equal(t, "1080p", parsed.Ext["res"])
}

func TestParseNameDefaultSeasonIsOne(t *testing.T) {
	t.Parallel()

	re, err := CompileRegex(`^(?P<title>.+) - (?P<episode>\d+)$`)
	require.NoError(t, err)

	parsed, ok := ParseName(re, "Example Show - 3")
	require.True(t, ok)
	assert.Equal(t, uint32(1), parsed.Season)
}
