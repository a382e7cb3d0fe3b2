package dedupe

// Package dedupe provides shared singleflight groups used to collapse
// concurrent catalog reads. Battle creation bursts ask for the same roster
// names many times; only one database query runs per key while the other
// callers wait for its result.

import "golang.org/x/sync/singleflight"

// CombatantGroup deduplicates roster lookups keyed by the canonical roster
// key (see keys.RosterKey).
var CombatantGroup singleflight.Group

// SpellGroup deduplicates full spell list reads.
var SpellGroup singleflight.Group
