package combat

import (
	"math"
	"testing"

	"battlesim/internal/config"
)

func newArmy(name string, groups ...*UnitGroup) *Army {
	return &Army{Name: name, Groups: groups}
}

// emptyGroup has no units, so it never attacks and is never targeted.
func emptyGroup(t UnitType, pos Position) *UnitGroup {
	return NewUnitGroup(t, pos, 10, 0, 0, 0, 0, 0)
}

func approx(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", what, got, want)
	}
}

// duelScenario gives each army a single front tank; infantry and snipers
// have no units.
func duelScenario(hpA, atkA float64, unitsA int, hpB, atkB float64, unitsB int) *config.Scenario {
	army := func(name string, hp, atk float64, units int) config.ArmyDef {
		return config.ArmyDef{Name: name, Groups: []config.GroupDef{
			{Type: "tank", HP: hp, Attack: atk, AttackSpeed: 1, Units: units, Position: "front"},
			{Type: "infantry", HP: 10, Position: "mid"},
			{Type: "sniper", HP: 10, Position: "back"},
		}}
	}
	return &config.Scenario{Armies: []config.ArmyDef{
		army("Red", hpA, atkA, unitsA),
		army("Blue", hpB, atkB, unitsB),
	}}
}
