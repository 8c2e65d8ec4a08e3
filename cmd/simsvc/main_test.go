package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"battlesim/internal/combat"
	"battlesim/internal/config"
	"battlesim/internal/watch"
)

// duel pits two single-tank armies; infantry and snipers have no units.
func duel(hp, atk float64, units int) *config.Scenario {
	army := func(name string) config.ArmyDef {
		return config.ArmyDef{Name: name, Groups: []config.GroupDef{
			{Type: "tank", HP: hp, Attack: atk, AttackSpeed: 1, Units: units, Position: "front"},
			{Type: "infantry", HP: 10, Position: "mid"},
			{Type: "sniper", HP: 10, Position: "back"},
		}}
	}
	return &config.Scenario{Armies: []config.ArmyDef{army("Red"), army("Blue")}}
}

func runOnce(t *testing.T, sc *config.Scenario, opts options) *combat.Result {
	t.Helper()
	sess, err := newSession(sc, opts, nil)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if err := runHeadless(context.Background(), sess, opts); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	res := sess.Result()
	if res == nil {
		t.Fatal("no result")
	}
	return res
}

func TestMaxTicksEndsStalemate(t *testing.T) {
	res := runOnce(t, duel(100, 0, 5), options{maxTicks: 7})
	if res.Outcome != combat.OutcomeStalemate || res.Tick != 7 {
		t.Fatalf("result = %+v, want stalemate at tick 7", res)
	}
}

func TestUntilStopsBattle(t *testing.T) {
	cond, err := watch.Compile("Tick >= 3")
	if err != nil {
		t.Fatal(err)
	}
	res := runOnce(t, duel(100, 0, 5), options{maxTicks: 100, until: cond})
	if res.Outcome != combat.OutcomeStopped || res.Tick != 3 {
		t.Fatalf("result = %+v, want stopped at tick 3", res)
	}
}

func TestBattleEndsBeforeLimits(t *testing.T) {
	res := runOnce(t, duel(10, 10, 2), options{maxTicks: 100})
	if res.Outcome != combat.OutcomeDraw || res.Tick != 1 {
		t.Fatalf("result = %+v, want draw at tick 1", res)
	}
}

func TestBuffFlagInstallsOnNamedArmy(t *testing.T) {
	bf, err := parseBuff("Blue:tank:100:1")
	if err != nil {
		t.Fatal(err)
	}
	// Blue hits twice as hard every tick and wipes Red out first.
	res := runOnce(t, duel(10, 1, 10), options{maxTicks: 100, buffs: []buffFlag{bf}})
	if res.Outcome != combat.OutcomeWin || res.Winner != "Blue" {
		t.Fatalf("result = %+v, want Blue win", res)
	}
}

func TestParseBuff(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		side    string
		group   combat.UnitType
		rule    combat.BuffRule
	}{
		{in: "a:tank:20:3", side: "a", group: combat.Tank, rule: combat.BuffRule{Percent: 20, Frequency: 3}},
		{in: "2:inf:12.5:2", side: "2", group: combat.Infantry, rule: combat.BuffRule{Percent: 12.5, Frequency: 2}},
		{in: "b:all:10:1", side: "b", group: combat.AllGroups, rule: combat.BuffRule{Percent: 10, Frequency: 1}},
		{in: "b:*:10:0", side: "b", group: combat.AllGroups, rule: combat.BuffRule{Percent: 10}},
		{in: "a:tank:20", wantErr: true},
		{in: "a:tank:20:3:1", wantErr: true},
		{in: "a:dragon:20:3", wantErr: true},
		{in: "a:tank:lots:3", wantErr: true},
		{in: "a:tank:20:often", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseBuff(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBuff(%q) succeeded: %+v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBuff(%q): %v", tt.in, err)
			continue
		}
		if got.side != tt.side || got.group != tt.group || got.rule != tt.rule {
			t.Errorf("parseBuff(%q) = %+v", tt.in, got)
		}
	}
}

func readSummary(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRunBatchSummary(t *testing.T) {
	tests := []struct {
		name       string
		sc         *config.Scenario
		buffs      []buffFlag
		draws      float64
		stalemates float64
		blueWins   float64
	}{
		{name: "draws", sc: duel(10, 10, 2), draws: 4},
		{name: "stalemates", sc: duel(100, 0, 2), stalemates: 4},
		{name: "wins", sc: duel(10, 1, 10), buffs: []buffFlag{{side: "b", group: combat.Tank, rule: combat.BuffRule{Percent: 100, Frequency: 1}}}, blueWins: 4},
	}
	for _, tt := range tests {
		out := filepath.Join(t.TempDir(), "summary.json")
		// workers 0 falls back to GOMAXPROCS.
		if err := runBatch(context.Background(), tt.sc, options{maxTicks: 10, buffs: tt.buffs}, 4, 0, 1, 0, out); err != nil {
			t.Fatalf("%s: runBatch: %v", tt.name, err)
		}
		sum := readSummary(t, out)
		if sum["runs"] != 4.0 || sum["draws"] != tt.draws || sum["stalemates"] != tt.stalemates {
			t.Errorf("%s: summary = %v", tt.name, sum)
		}
		blue := sum["wins"].(map[string]any)["Blue"].(map[string]any)
		if blue["total"] != tt.blueWins {
			t.Errorf("%s: Blue wins = %v, want %v", tt.name, blue["total"], tt.blueWins)
		}
	}
}

func TestRunBatchJitterKeepsRunning(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.json")
	if err := runBatch(context.Background(), config.Default(), options{maxTicks: 3600}, 6, 2, 99, 0.2, out); err != nil {
		t.Fatal(err)
	}
	sum := readSummary(t, out)
	wins := sum["wins"].(map[string]any)
	total := sum["draws"].(float64) + sum["stalemates"].(float64) +
		wins["Army 1"].(map[string]any)["total"].(float64) + wins["Army 2"].(map[string]any)["total"].(float64)
	if total != 6 {
		t.Fatalf("outcomes add up to %v, want 6: %v", total, sum)
	}
}
