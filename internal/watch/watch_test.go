package watch

import (
	"testing"

	"battlesim/internal/combat"
)

func sampleSnapshot() combat.Snapshot {
	return combat.Snapshot{
		Tick: 12,
		Armies: [2]combat.ArmyStatus{
			{Name: "Red", Alive: 30, HP: 900, Groups: []combat.GroupStatus{
				{Type: combat.Tank, Alive: 0, Units: 5},
				{Type: combat.Infantry, Alive: 30, HP: 900, Units: 40},
			}},
			{Name: "Blue", Alive: 8, HP: 320, Lost: 2, Groups: []combat.GroupStatus{
				{Type: combat.Tank, Alive: 8, HP: 320, Lost: 2, Units: 10},
			}},
		},
	}
}

func TestConditionMatch(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"Tick >= 12", true},
		{"Tick > 12", false},
		{"A.Alive < 10 || B.Alive < 10", true},
		{"A.Groups.tank.Alive == 0", true},
		{"B.Groups.tank.Lost > 2", false},
		{`A.Name == "Red" && B.HP < 500`, true},
	}
	snap := sampleSnapshot()
	for _, tt := range tests {
		c, err := Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.src, err)
		}
		got, err := c.Match(snap)
		if err != nil {
			t.Fatalf("Match(%q): %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestCompileRejectsBadConditions(t *testing.T) {
	for _, src := range []string{"Tick +", "Tick + 1", "Morale > 3"} {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q) succeeded", src)
		}
	}
}
