package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"battlesim/internal/combat"
	"battlesim/internal/config"
	"battlesim/internal/util"
	"battlesim/internal/watch"
)

type buffFlag struct {
	side  string
	group combat.UnitType
	rule  combat.BuffRule
}

func parseBuff(s string) (buffFlag, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return buffFlag{}, fmt.Errorf("buff %q: want army:group:percent:frequency", s)
	}
	bf := buffFlag{side: parts[0], group: combat.AllGroups}
	if g := strings.ToLower(parts[1]); g != "all" && g != "*" {
		t, ok := config.NormalizeType(g)
		if !ok {
			return buffFlag{}, fmt.Errorf("buff %q: unknown group %q", s, parts[1])
		}
		bf.group = combat.UnitType(t)
	}
	pct, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return buffFlag{}, fmt.Errorf("buff %q: percent: %w", s, err)
	}
	freq, err := strconv.Atoi(parts[3])
	if err != nil {
		return buffFlag{}, fmt.Errorf("buff %q: frequency: %w", s, err)
	}
	bf.rule = combat.BuffRule{Percent: pct, Frequency: freq}
	return bf, nil
}

type options struct {
	maxTicks int
	until    *watch.Condition
	buffs    []buffFlag
}

func main() {
	var cfgPath, out, until string
	var seed int64
	var n, workers, maxTicks int
	var jitter float64
	var interval time.Duration
	var saveLog, verbose bool
	var buffs []buffFlag
	flag.StringVar(&cfgPath, "config", "", "scenario YAML (empty = built-in scenario)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 12345, "seed for batch jitter")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", 8, "parallel batch workers")
	flag.Float64Var(&jitter, "jitter", 0, "batch: perturb unit counts by up to this fraction")
	flag.IntVar(&maxTicks, "max-ticks", 3600, "end a battle as a stalemate after this many ticks")
	flag.StringVar(&until, "until", "", "stop condition, e.g. 'Tick >= 60 || A.Alive < 10'")
	flag.DurationVar(&interval, "interval", 0, "real-time tick interval for single runs (0 = as fast as possible)")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Func("buff", "install a buff, army:group:percent:frequency (group may be 'all'); repeatable", func(s string) error {
		bf, err := parseBuff(s)
		if err != nil {
			return err
		}
		buffs = append(buffs, bf)
		return nil
	})
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sc := config.Default()
	if cfgPath != "" {
		var err error
		if sc, err = config.LoadScenario(cfgPath); err != nil {
			slog.Error("failed to load scenario", "path", cfgPath, "error", err)
			os.Exit(1)
		}
	}

	opts := options{maxTicks: maxTicks, buffs: buffs}
	if until != "" {
		cond, err := watch.Compile(until)
		if err != nil {
			slog.Error("bad stop condition", "error", err)
			os.Exit(1)
		}
		opts.until = cond
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n <= 1 {
		if err := runSingle(ctx, sc, opts, interval, saveLog, out); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := runBatch(ctx, sc, opts, n, workers, seed, jitter, out); err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

func newSession(sc *config.Scenario, opts options, observer combat.Observer) (*combat.Session, error) {
	sess := combat.NewSession(sc, observer)
	for _, bf := range opts.buffs {
		side, err := sess.ParseSide(bf.side)
		if err != nil {
			return nil, err
		}
		if err := sess.InstallBuff(side, bf.group, bf.rule); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// checkLimits halts the session when the tick cap or the stop condition is
// reached.
func checkLimits(sess *combat.Session, snap combat.Snapshot, opts options) error {
	if snap.Result != nil {
		return nil
	}
	if opts.until != nil {
		hit, err := opts.until.Match(snap)
		if err != nil {
			return err
		}
		if hit {
			sess.Halt(combat.OutcomeStopped)
			return nil
		}
	}
	if opts.maxTicks > 0 && snap.Tick >= opts.maxTicks {
		sess.Halt(combat.OutcomeStalemate)
	}
	return nil
}

func runHeadless(ctx context.Context, sess *combat.Session, opts options) error {
	if err := sess.Start(); err != nil {
		return err
	}
	for sess.Phase() == combat.PhaseRunning {
		if err := ctx.Err(); err != nil {
			sess.Reset()
			return err
		}
		snap, ok := sess.Step()
		if !ok {
			break
		}
		if err := checkLimits(sess, snap, opts); err != nil {
			return err
		}
	}
	return nil
}

func runSingle(ctx context.Context, sc *config.Scenario, opts options, interval time.Duration, saveLog bool, out string) error {
	type dump struct {
		SessionID string          `json:"session_id"`
		Result    *combat.Result  `json:"result"`
		Final     combat.Snapshot `json:"final"`
		Events    []combat.Event  `json:"events,omitempty"`
	}
	var (
		mu     sync.Mutex
		events []combat.Event
		limErr error
		sess   *combat.Session
	)
	observer := func(snap combat.Snapshot) {
		if snap.Cleared {
			return
		}
		fmt.Println(snap.Log)
		mu.Lock()
		if saveLog {
			events = append(events, snap.Events...)
		}
		mu.Unlock()
		if interval > 0 {
			if err := checkLimits(sess, snap, opts); err != nil {
				mu.Lock()
				limErr = err
				mu.Unlock()
				sess.Halt(combat.OutcomeStopped)
			}
		}
	}
	sess, err := newSession(sc, opts, observer)
	if err != nil {
		return err
	}

	if interval > 0 {
		r := combat.NewRunner(sess, interval)
		if err := r.Start(ctx); err != nil {
			return err
		}
		select {
		case <-r.Done():
		case <-ctx.Done():
			r.Reset()
			return ctx.Err()
		}
	} else if err := runHeadless(ctx, sess, opts); err != nil {
		return err
	}
	if limErr != nil {
		return limErr
	}

	final, _ := sess.Snapshot()
	res := sess.Result()
	d := dump{SessionID: sess.ID(), Result: res, Final: final, Events: events}
	if err := os.WriteFile(out, combat.MarshalPretty(d), 0644); err != nil {
		return err
	}
	if res != nil {
		fmt.Printf("Single simsvc finished. Result=%s, T=%ds -> %s\n", res.String(), res.Tick, out)
	}
	return nil
}

func runBatch(ctx context.Context, sc *config.Scenario, opts options, n, workers int, seed int64, jitter float64, out string) error {
	type stat struct {
		Wins       [2]int
		Draws      int
		Stalemates int
		Stopped    int
		SumTicks   int
	}
	var st stat
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			run := sc.Clone()
			if jitter > 0 {
				rng := util.New(seed + int64(i))
				for a := range run.Armies {
					for k := range run.Armies[a].Groups {
						run.Armies[a].Groups[k].Units = util.Jitter(rng, run.Armies[a].Groups[k].Units, jitter)
					}
				}
			}
			sess, err := newSession(run, opts, nil)
			if err != nil {
				return err
			}
			if err := runHeadless(ctx, sess, opts); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res := sess.Result()
			if res == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			st.SumTicks += res.Tick
			switch res.Outcome {
			case combat.OutcomeWin:
				st.Wins[res.WinnerSide]++
			case combat.OutcomeDraw:
				st.Draws++
			case combat.OutcomeStalemate:
				st.Stalemates++
			case combat.OutcomeStopped:
				st.Stopped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary := map[string]any{
		"runs":       n,
		"jitter":     jitter,
		"draws":      st.Draws,
		"stalemates": st.Stalemates,
		"stopped":    st.Stopped,
		"avg_ticks":  float64(st.SumTicks) / float64(n),
		"wins": map[string]any{
			sc.Armies[combat.SideA].Name: map[string]any{"total": st.Wins[combat.SideA], "ratio": float64(st.Wins[combat.SideA]) / float64(n)},
			sc.Armies[combat.SideB].Name: map[string]any{"total": st.Wins[combat.SideB], "ratio": float64(st.Wins[combat.SideB]) / float64(n)},
		},
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		return err
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
	return nil
}
