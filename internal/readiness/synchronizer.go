// Package readiness implements the dual-party commit barrier that gates a
// battle's move into combat.
package readiness

import (
	"github.com/zawodev/zawomons/internal/engine"
	"github.com/zawodev/zawomons/internal/game"
)

// SelectMove records a participant's spell and optional target for the
// current turn and marks it committed. An empty spellID is an explicit skip.
// Every check runs before any field is written, so a rejected call leaves
// the battle untouched.
func SelectMove(b *game.Battle, id game.ParticipantID, spellID string, target game.ParticipantID) error {
	if err := RequireSelection(b); err != nil {
		return err
	}
	p := b.Participant(id)
	if p == nil {
		return game.Reject(game.CodeUnknownParticipant, "no participant %q", id)
	}
	if !p.Alive() {
		return game.Reject(game.CodeParticipantDead, "%s is defeated", id)
	}
	if b.Locked[p.Party] {
		return game.Reject(game.CodePartyLocked, "party %s already committed", p.Party)
	}

	if spellID == "" {
		if target != "" {
			return game.Reject(game.CodeTargetNotApplicable, "a skip takes no target")
		}
		p.Spell, p.Target, p.Committed = nil, "", true
		return nil
	}

	spell := p.Combatant.KnownSpell(spellID)
	if spell == nil {
		return game.Reject(game.CodeSpellNotKnown, "%s does not know %q", p.Name(), spellID)
	}
	if !spell.CanBeLearnedBy(p.Combatant) {
		return game.Reject(game.CodeSpellNotEligible, "%s cannot use %q at level %d", p.Name(), spellID, p.Level())
	}
	if target != "" {
		if err := checkTarget(b, p, spell, target); err != nil {
			return err
		}
	}

	p.Spell, p.Target, p.Committed = spell, target, true
	return nil
}

// checkTarget accepts target if it is valid for at least one of the spell's
// single-target effects.
func checkTarget(b *game.Battle, caster *game.Participant, spell *game.Spell, target game.ParticipantID) error {
	shapes := spell.SingleTargetShapes()
	if len(shapes) == 0 {
		return game.Reject(game.CodeTargetNotApplicable, "%q has no single-target effect", spell.ID)
	}
	t := b.Participant(target)
	for _, shape := range shapes {
		if engine.ValidExplicitTarget(caster, t, shape) {
			return nil
		}
	}
	return game.Reject(game.CodeInvalidTarget, "%q is not a valid target for %q", target, spell.ID)
}

// CommitParty locks a party in. Living members that never selected a move
// are committed as skips. Committing an already locked party is a no-op.
// A party with no living members may always lock.
func CommitParty(b *game.Battle, party game.PartyID) error {
	if !party.Valid() {
		return game.Reject(game.CodeUnknownParty, "no party %d", int(party))
	}
	if err := RequireSelection(b); err != nil {
		return err
	}
	if b.Locked[party] {
		return nil
	}
	for _, m := range b.Party(party) {
		if m.Alive() && !m.Committed {
			m.Spell, m.Target, m.Committed = nil, "", true
		}
	}
	b.Locked[party] = true
	return nil
}

// Ready reports whether both parties are locked and every living member is
// committed. Dead members are satisfied vacuously.
func Ready(b *game.Battle) bool {
	if b.Phase != game.PhaseSelection {
		return false
	}
	for _, party := range []game.PartyID{game.PartyA, game.PartyB} {
		if !b.Locked[party] {
			return false
		}
		for _, m := range b.Party(party) {
			if m.Alive() && !m.Committed {
				return false
			}
		}
	}
	return true
}

// Reset clears every selection, commit flag and party lock.
func Reset(b *game.Battle) {
	for _, m := range b.All() {
		m.ClearSelection()
	}
	b.Locked = [2]bool{}
}

// RequireSelection refuses changes outside selection. A finished battle
// reports BATTLE_FINISHED, any other phase BATTLE_WRONG_PHASE.
func RequireSelection(b *game.Battle) error {
	switch b.Phase {
	case game.PhaseSelection:
		return nil
	case game.PhaseFinished:
		return game.Reject(game.CodeBattleFinished, "battle is over")
	}
	return game.Reject(game.CodeWrongPhase, "commitments only change during selection, phase is %s", b.Phase)
}
