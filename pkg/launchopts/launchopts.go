// LaunchOpts Core
// Copyright (c) 2026 The LaunchOpts Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LaunchOpts Core.
//
// LaunchOpts Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LaunchOpts Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LaunchOpts Core.  If not, see <http://www.gnu.org/licenses/>.

// Package launchopts parses and merges Steam launch option strings.
//
// A launch option string is a whitespace-delimited token list which may
// contain the reserved %command% placeholder marking where Steam substitutes
// the game's executable invocation. Tokens before the placeholder are
// wrappers and environment assignments, tokens after it are arguments passed
// to the game itself.
package launchopts

import "strings"

// Placeholder is the token Steam replaces with the game's executable
// invocation. It is reserved and cannot be escaped.
const Placeholder = "%command%"

// Parsed is the result of splitting a launch option string around the
// placeholder token.
type Parsed struct {
	// PreCommand holds tokens appearing before the placeholder.
	PreCommand []string
	// PostCommand holds tokens appearing after the placeholder, or the
	// whole string when no placeholder is present.
	PostCommand []string
	// HasPlaceholder is true if the source string contained the
	// placeholder at least once.
	HasPlaceholder bool
}

// Parse splits a raw launch option string into pre- and post-placeholder
// token lists. Tokens are split on runs of whitespace with order preserved.
// A string with more than one placeholder degrades gracefully: everything
// after the first placeholder is treated as post-command tokens.
func Parse(raw string) Parsed {
	if strings.TrimSpace(raw) == "" {
		return Parsed{}
	}

	fragments := strings.Split(raw, Placeholder)
	if len(fragments) == 1 {
		return Parsed{
			PostCommand: strings.Fields(raw),
		}
	}

	post := fragments[1]
	if len(fragments) > 2 {
		post = strings.Join(fragments[1:], " ")
	}

	return Parsed{
		PreCommand:     strings.Fields(fragments[0]),
		PostCommand:    strings.Fields(post),
		HasPlaceholder: true,
	}
}

// Merge combines an app's own launch options with the global override
// options into a single string. The app's wrappers run innermost and its
// arguments come first, so global wrappers apply outside per-app ones and
// global flags can override by position.
//
// The placeholder is emitted if either input contained one, or if any
// pre-command tokens exist at all: a wrapper without a placeholder would
// otherwise swallow the executable. Merging two empty strings yields the
// empty string.
func Merge(original, global string) string {
	orig := Parse(original)
	over := Parse(global)

	pre := make([]string, 0, len(orig.PreCommand)+len(over.PreCommand))
	pre = append(pre, orig.PreCommand...)
	pre = append(pre, over.PreCommand...)

	post := make([]string, 0, len(orig.PostCommand)+len(over.PostCommand))
	post = append(post, orig.PostCommand...)
	post = append(post, over.PostCommand...)

	parts := make([]string, 0, len(pre)+len(post)+1)
	parts = append(parts, pre...)
	if orig.HasPlaceholder || over.HasPlaceholder || len(pre) > 0 {
		parts = append(parts, Placeholder)
	}
	parts = append(parts, post...)

	return strings.Join(parts, " ")
}
