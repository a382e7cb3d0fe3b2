package engine

import "github.com/zawodev/zawomons/internal/game"

// executeOrder runs each participant's spell in order and records results
// in the context. A participant killed earlier in the pass does not act.
func (tc *turnContext) executeOrder(order []*game.Participant) {
	for _, actor := range order {
		if !actor.Alive() {
			tc.skip(actor)
			tc.add("%s is down and cannot act", displayName(actor))
			continue
		}
		own := tc.b.Party(actor.Party)
		opposing := tc.b.Party(actor.Party.Opponent())

		action := game.ActionResult{Actor: actor.ID, Name: actor.Name(), SpellID: actor.Spell.ID}
		tc.add("%s casts %s", displayName(actor), actor.Spell.Name)

		for _, e := range actor.Spell.Effects {
			applied := game.AppliedEffect{Effect: e}
			for _, target := range ResolveTargets(actor, e.Target, own, opposing) {
				out := applyEffect(e, target)
				applied.Targets = append(applied.Targets, out)
				tc.describe(e, target, out)
			}
			action.Effects = append(action.Effects, applied)
		}
		tc.result.Actions = append(tc.result.Actions, action)
	}
}

func (tc *turnContext) describe(e game.Effect, target *game.Participant, out game.TargetOutcome) {
	switch e.Kind {
	case game.EffectDamage:
		tc.add("  %s takes %d damage (%d -> %d)", displayName(target), -out.HealthDelta, out.HealthBefore, out.HealthAfter)
	case game.EffectHeal:
		tc.add("  %s heals %d (%d -> %d)", displayName(target), out.HealthDelta, out.HealthBefore, out.HealthAfter)
	case game.EffectInitiativeBuff:
		tc.add("  %s initiative %+d (now %d)", displayName(target), out.InitiativeDelta, target.TotalInitiative())
	case game.EffectDamageBuff:
		tc.add("  %s damage %+d (now %d)", displayName(target), out.DamageDelta, target.CurrentDamage())
	}
	if out.Defeated {
		tc.add("  %s is defeated!", displayName(target))
	}
}
