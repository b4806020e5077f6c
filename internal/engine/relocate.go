// Copyright (c) 2026, nyauser contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"strings"

	"github.com/nyauser/nyauser/internal/domain"
)

// resolveRelocate picks the relocate directory for a candidate.
//
// series.Relocate, when set, is already the series-specific directory and
// is used as-is. Otherwise the first of profile.Relocate / globalRelocate
// that is set is treated as a shared base directory and series.Name is
// appended to it, since a base shared across series needs its own
// subdirectory per series. relocate_season always comes from series,
// independent of which branch supplied the base.
func resolveRelocate(series domain.Series, profile domain.Profile, globalRelocate *string) *string {
	if series.Relocate != nil {
		return series.Relocate
	}

	base := profile.Relocate
	if base == nil {
		base = globalRelocate
	}
	if base == nil {
		return nil
	}

	dir := appendSeriesName(*base, series.Name)
	return &dir
}

// appendSeriesName joins base and name, ensuring exactly one separating
// slash regardless of whether base already ends in one.
func appendSeriesName(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}
