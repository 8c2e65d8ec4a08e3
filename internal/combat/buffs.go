package combat

// AllGroups as the group key of an installed buff makes it army-wide.
const AllGroups UnitType = "*"

type buffKey struct {
	side Side
	typ  UnitType
}

// BuffBook holds buffs installed at runtime. A group-specific entry wins
// over an army-wide one.
type BuffBook struct {
	rules map[buffKey]BuffRule
}

func NewBuffBook() *BuffBook {
	return &BuffBook{rules: map[buffKey]BuffRule{}}
}

func (bb *BuffBook) Install(side Side, t UnitType, rule BuffRule) {
	if t == AllGroups {
		for k := range bb.rules {
			if k.side == side {
				delete(bb.rules, k)
			}
		}
	}
	bb.rules[buffKey{side, t}] = rule
}

func (bb *BuffBook) Resolve(side Side, t UnitType) (BuffRule, bool) {
	if bb == nil {
		return BuffRule{}, false
	}
	if r, ok := bb.rules[buffKey{side, t}]; ok {
		return r, true
	}
	r, ok := bb.rules[buffKey{side, AllGroups}]
	return r, ok
}

// ApplyTo sets the resolved buff on every group of the army. Groups with no
// installed rule keep their configured buff.
func (bb *BuffBook) ApplyTo(side Side, a *Army) {
	for _, g := range a.Groups {
		if r, ok := bb.Resolve(side, g.Type); ok {
			g.Buff = r
		}
	}
}
