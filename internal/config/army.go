package config

type Scenario struct {
	Armies []ArmyDef `yaml:"armies"`
}

type ArmyDef struct {
	Name   string     `yaml:"name"`
	Buff   *BuffDef   `yaml:"buff"`
	Groups []GroupDef `yaml:"groups"`
}

// GroupDef holds the per-unit stats of one group. Missing numeric fields
// decode as 0; penetration is optional.
type GroupDef struct {
	Type        string   `yaml:"type"`
	HP          float64  `yaml:"hp"`
	Attack      float64  `yaml:"attack"`
	AttackSpeed float64  `yaml:"attack_speed"`
	Defense     float64  `yaml:"defense"`
	Penetration float64  `yaml:"penetration"`
	Units       int      `yaml:"units"`
	Position    string   `yaml:"position"`
	Buff        *BuffDef `yaml:"buff"`
}

type BuffDef struct {
	Percent   float64 `yaml:"percent"`
	Frequency int     `yaml:"frequency"`
}

// EffectiveBuff returns the group buff if set, else the army buff.
func (a ArmyDef) EffectiveBuff(g GroupDef) *BuffDef {
	if g.Buff != nil {
		return g.Buff
	}
	return a.Buff
}

func (s *Scenario) Clone() *Scenario {
	out := &Scenario{Armies: make([]ArmyDef, len(s.Armies))}
	for i, a := range s.Armies {
		na := ArmyDef{Name: a.Name, Groups: make([]GroupDef, len(a.Groups))}
		if a.Buff != nil {
			b := *a.Buff
			na.Buff = &b
		}
		for j, g := range a.Groups {
			ng := g
			if g.Buff != nil {
				b := *g.Buff
				ng.Buff = &b
			}
			na.Groups[j] = ng
		}
		out.Armies[i] = na
	}
	return out
}

// Default mirrors the stock values of the battle setup form.
func Default() *Scenario {
	army := func(name string) ArmyDef {
		return ArmyDef{
			Name: name,
			Groups: []GroupDef{
				{Type: "tank", HP: 300, Attack: 12, AttackSpeed: 0.5, Defense: 40, Penetration: 5, Units: 20, Position: "front"},
				{Type: "infantry", HP: 100, Attack: 10, AttackSpeed: 1, Defense: 10, Penetration: 0, Units: 60, Position: "mid"},
				{Type: "sniper", HP: 60, Attack: 35, AttackSpeed: 0.5, Defense: 0, Penetration: 20, Units: 15, Position: "back"},
			},
		}
	}
	return &Scenario{Armies: []ArmyDef{army("Army 1"), army("Army 2")}}
}
