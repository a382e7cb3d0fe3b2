package engine

import "github.com/zawodev/zawomons/internal/game"

// ResolveTargets maps a caster and an effect's target shape to the concrete
// participants the effect lands on. It is pure: nothing is mutated.
//
// Single-target shapes honour the caster's explicit choice while it is still
// valid (alive, on the right side, not the caster for Ally) and otherwise
// fall back to the first living eligible member in roster order. Dead
// participants never appear in the result.
func ResolveTargets(caster *game.Participant, shape game.TargetShape, own, opposing []*game.Participant) []*game.Participant {
	notCaster := func(m *game.Participant) bool { return m != caster }

	switch shape {
	case game.TargetSelf:
		if !caster.Alive() {
			return nil
		}
		return []*game.Participant{caster}
	case game.TargetAlly:
		if chosen := explicitChoice(caster, own, notCaster); chosen != nil {
			return []*game.Participant{chosen}
		}
		if m := firstLiving(own, notCaster); m != nil {
			return []*game.Participant{m}
		}
		return nil
	case game.TargetAllAllies:
		return allLiving(own, notCaster)
	case game.TargetEnemy:
		if chosen := explicitChoice(caster, opposing, everyone); chosen != nil {
			return []*game.Participant{chosen}
		}
		if m := firstLiving(opposing, everyone); m != nil {
			return []*game.Participant{m}
		}
		return nil
	case game.TargetAllEnemies:
		return allLiving(opposing, everyone)
	}
	return nil
}

// explicitChoice returns the caster's selected target if it is a living
// member of pool accepted by keep.
func explicitChoice(caster *game.Participant, pool []*game.Participant, keep func(*game.Participant) bool) *game.Participant {
	if caster.Target == "" {
		return nil
	}
	for _, m := range pool {
		if m.ID == caster.Target && m.Alive() && keep(m) {
			return m
		}
	}
	return nil
}

// ValidExplicitTarget reports whether target would currently be honoured as
// an explicit choice for shape. Selection uses it to reject targets up
// front; resolution re-checks through ResolveTargets.
func ValidExplicitTarget(caster, target *game.Participant, shape game.TargetShape) bool {
	if target == nil || !target.Alive() {
		return false
	}
	switch shape {
	case game.TargetAlly:
		return target.Party == caster.Party && target != caster
	case game.TargetEnemy:
		return target.Party != caster.Party
	}
	return false
}
