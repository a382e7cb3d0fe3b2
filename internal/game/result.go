package game

// TargetOutcome records what one effect did to one participant.
type TargetOutcome struct {
	Participant     ParticipantID `json:"participant_id"`
	HealthBefore    int           `json:"health_before"`
	HealthAfter     int           `json:"health_after"`
	HealthDelta     int           `json:"health_delta"`
	InitiativeDelta int           `json:"initiative_delta,omitempty"`
	DamageDelta     int           `json:"damage_delta,omitempty"`
	Defeated        bool          `json:"defeated,omitempty"`
}

// AppliedEffect is one effect of an action with its concrete target set.
type AppliedEffect struct {
	Effect  Effect          `json:"effect"`
	Targets []TargetOutcome `json:"targets"`
}

// ActionResult is everything one participant did during a pass.
type ActionResult struct {
	Actor   ParticipantID   `json:"actor_id"`
	Name    string          `json:"actor_name"`
	SpellID string          `json:"spell_id"`
	Effects []AppliedEffect `json:"effects"`
}

// TurnResult enumerates a resolution pass in execution order.
type TurnResult struct {
	Turn    int            `json:"turn"`
	Actions []ActionResult `json:"actions"`
	// Skipped lists living participants that committed no action, and
	// participants that died before their slot in the order came up.
	Skipped []ParticipantID `json:"skipped"`
	Winner  Winner          `json:"winner"`
	Summary []string        `json:"summary"`
}

// Finished reports whether the pass ended the battle.
func (r *TurnResult) Finished() bool {
	return r.Winner != WinnerNone && r.Winner != ""
}
