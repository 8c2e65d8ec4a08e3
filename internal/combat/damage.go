package combat

// DefenseReductionPerPoint is the fraction of damage removed per point of
// effective defense.
const DefenseReductionPerPoint = 0.005

// DamageMap accumulates the damage each defending group takes in a tick.
type DamageMap map[*UnitGroup]float64

// Hit is one group's attack within a tick.
type Hit struct {
	Attacker *UnitGroup
	Target   *UnitGroup
	Damage   float64
	Buffed   bool
}

// EffectiveDefense is the target's defense minus the attacker's
// penetration, floored at zero.
func EffectiveDefense(def, pen float64) float64 {
	if d := def - pen; d > 0 {
		return d
	}
	return 0
}

// DefenseMultiplier is 1 - 0.005*effectiveDefense, clamped to [0, 1] so
// that defense above 200 blocks everything instead of healing.
func DefenseMultiplier(effectiveDefense float64) float64 {
	m := 1 - DefenseReductionPerPoint*effectiveDefense
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}

// ResolveAttacks lets every alive attacking group hit its target. Targets
// are chosen from the defender as it is passed in; no damage is applied
// here. Attack counters of the attacking groups advance.
func ResolveAttacks(attacker, defender *Army) []Hit {
	hits := make([]Hit, 0, len(attacker.Groups))
	for _, g := range attacker.Groups {
		alive := g.Alive()
		if alive <= 0 {
			continue
		}
		target := SelectTarget(defender)
		if target == nil {
			continue
		}

		g.AttackCounter++

		power := g.Attack * float64(alive)
		buffed := g.Buff.Active(g.AttackCounter)
		if buffed {
			power *= 1 + g.Buff.Percent/100
		}
		raw := power * g.AttackSpeed
		dmg := raw * DefenseMultiplier(EffectiveDefense(target.Defense, g.Penetration))

		hits = append(hits, Hit{Attacker: g, Target: target, Damage: dmg, Buffed: buffed})
	}
	return hits
}

// ComputeDamage returns the damage the attacker deals to each defending
// group this tick.
func ComputeDamage(attacker, defender *Army) DamageMap {
	return accumulate(ResolveAttacks(attacker, defender))
}

func accumulate(hits []Hit) DamageMap {
	m := DamageMap{}
	for _, h := range hits {
		m[h.Target] += h.Damage
	}
	return m
}

// ApplyDamage subtracts each accumulated amount from its group, never
// taking health below zero.
func ApplyDamage(m DamageMap) {
	for g, dmg := range m {
		g.takeDamage(dmg)
	}
}
