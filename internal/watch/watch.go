// Package watch evaluates user-supplied stop conditions against battle
// snapshots, e.g. `Tick >= 60 || A.Alive < 10 || B.Groups.tank.Alive == 0`.
package watch

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"battlesim/internal/combat"
)

// Env is what a condition sees.
type Env struct {
	Tick int
	A    ArmyView
	B    ArmyView
}

type ArmyView struct {
	Name   string
	Alive  int
	HP     float64
	Lost   int
	Groups map[string]GroupView
}

type GroupView struct {
	Alive   int
	HP      float64
	Lost    int
	Units   int
	Percent float64
}

// Condition is a compiled boolean expression.
type Condition struct {
	Src     string
	program *vm.Program
}

// Compile checks src once against Env so evaluation per tick cannot fail
// on a type error.
func Compile(src string) (*Condition, error) {
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", src, err)
	}
	return &Condition{Src: src, program: prog}, nil
}

func (c *Condition) Match(snap combat.Snapshot) (bool, error) {
	out, err := vm.Run(c.program, NewEnv(snap))
	if err != nil {
		return false, fmt.Errorf("run condition %q: %w", c.Src, err)
	}
	match, _ := out.(bool)
	return match, nil
}

func NewEnv(snap combat.Snapshot) Env {
	return Env{Tick: snap.Tick, A: armyView(snap.Armies[combat.SideA]), B: armyView(snap.Armies[combat.SideB])}
}

func armyView(a combat.ArmyStatus) ArmyView {
	v := ArmyView{Name: a.Name, Alive: a.Alive, HP: a.HP, Lost: a.Lost, Groups: map[string]GroupView{}}
	for _, g := range a.Groups {
		v.Groups[string(g.Type)] = GroupView{Alive: g.Alive, HP: g.HP, Lost: g.Lost, Units: g.Units, Percent: g.Percent}
	}
	return v
}
