package engine

import "github.com/zawodev/zawomons/internal/game"

// --- Effect application -------------------------------------------------

// applyEffect applies one effect to one target and reports the outcome.
// Health always stays within [0, max health] whatever the magnitude.
func applyEffect(e game.Effect, target *game.Participant) game.TargetOutcome {
	out := game.TargetOutcome{Participant: target.ID, HealthBefore: target.Health}
	maxHP := target.MaxHealth()

	switch e.Kind {
	case game.EffectDamage:
		target.Health = clamp(target.Health-e.Magnitude, 0, maxHP)
	case game.EffectHeal:
		target.Health = clamp(target.Health+e.Magnitude, 0, maxHP)
	case game.EffectInitiativeBuff:
		target.InitiativeModifier += e.Magnitude
		out.InitiativeDelta = e.Magnitude
	case game.EffectDamageBuff:
		target.DamageModifier += e.Magnitude
		out.DamageDelta = e.Magnitude
	}

	out.HealthAfter = target.Health
	out.HealthDelta = out.HealthAfter - out.HealthBefore
	out.Defeated = out.HealthBefore > 0 && out.HealthAfter == 0
	return out
}
