package combat

import (
	"fmt"

	"battlesim/internal/config"
)

// NewArmy builds an army from its scenario definition. The definition is
// validated first so no malformed stat reaches the damage math.
func NewArmy(def config.ArmyDef) (*Army, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	a := &Army{Name: def.Name, Groups: make([]*UnitGroup, 0, len(def.Groups))}
	for _, gd := range def.Groups {
		t, _ := config.NormalizeType(gd.Type)
		pos, _ := config.NormalizePosition(gd.Position)
		g := NewUnitGroup(UnitType(t), Position(pos), gd.HP, gd.Attack, gd.AttackSpeed, gd.Defense, gd.Penetration, gd.Units)
		if b := def.EffectiveBuff(gd); b != nil {
			g.Buff = BuffRule{Percent: b.Percent, Frequency: b.Frequency}
		}
		a.Groups = append(a.Groups, g)
	}
	return a, nil
}

// NewArmies builds both armies of a scenario.
func NewArmies(sc *config.Scenario) ([2]*Army, error) {
	var out [2]*Army
	if err := sc.Validate(); err != nil {
		return out, err
	}
	for i := range out {
		a, err := NewArmy(sc.Armies[i])
		if err != nil {
			return out, fmt.Errorf("army %d: %w", i+1, err)
		}
		out[i] = a
	}
	return out, nil
}
