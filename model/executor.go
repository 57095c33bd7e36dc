package model

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/scopevm/cas"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

// An Executor is the context and entrypoint for running a program under a
// spec. An executor's store records visited states, so each executor is
// meant for a single Run.
type Executor struct {
	Program  *vm.Program
	Spec     *Spec
	Output   io.Writer // also receives PRINT output when set
	Store    cas.CAS
	RunID    uuid.UUID
	Reporter Reporter
}

func (e *Executor) newInterpreter(out io.Writer) *interp.Interpreter {
	in := interp.NewWithConfig(interp.Config{
		Out:           out,
		MaxStackDepth: e.Spec.Limits.MaxStackDepth,
	})
	in.Load(e.Program)
	return in
}

func (e *Executor) Run() *Result {
	var buf bytes.Buffer
	out := io.Writer(&buf)
	if e.Output != nil {
		out = io.MultiWriter(&buf, e.Output)
	}
	in := e.newInterpreter(out)
	res := &Result{RunID: e.RunID}
	limits := e.Spec.Limits

	log.Debug().
		Str("run_id", e.RunID.String()).
		Str("file", e.Program.Filename).
		Int("instructions", e.Program.Len()).
		Int("max_steps", limits.MaxSteps).
		Int("max_stack_depth", limits.MaxStackDepth).
		Bool("detect_loops", limits.DetectLoops).
		Msg("Run: starting")

	if h, err := e.Store.Put(e.Program); err == nil {
		res.ProgramHash = h
	} else {
		log.Debug().Err(err).Msg("Run: could not store program")
	}

	start := time.Now()
	stats := &res.Statistics
	if limits.DetectLoops {
		res.Err = e.visit(in, stats)
	}
	for res.Err == nil {
		if limits.MaxSteps > 0 && stats.Steps >= limits.MaxSteps && in.Running() {
			res.Err = fmt.Errorf("%w: %d steps", ErrStepLimit, limits.MaxSteps)
			break
		}
		pc := in.Evaluator.PC
		op, _ := e.Program.GetInstruction(pc)
		step, err := in.Step()
		if err != nil {
			res.Err = &ExecError{PC: pc, Line: e.Program.GetLineNumber(pc), Op: op, Err: err}
			break
		}
		if step == interp.EndStep {
			break
		}
		stats.Steps++
		frame, err := in.TopFrame()
		if err == nil {
			stats.MaxValueDepth = max(stats.MaxValueDepth, frame.Values.Len())
			stats.MaxScopeDepth = max(stats.MaxScopeDepth, frame.Scopes.Len())
			e.Reporter.Step(StepInfo{
				Step:       stats.Steps,
				PC:         pc,
				Line:       e.Program.GetLineNumber(pc),
				Op:         op,
				StackDepth: frame.Values.Len(),
				ScopeDepth: frame.Scopes.Len(),
			})
		}
		if step == interp.HaltStep {
			break
		}
		if limits.DetectLoops {
			res.Err = e.visit(in, stats)
		}
	}
	stats.Duration = time.Since(start)
	if lru, ok := e.Store.(*cas.LRUCache); ok {
		cs := lru.Stats()
		stats.Cache = &cs
	}

	res.Success = res.Err == nil
	res.Output = buf.String()
	res.Final = in.Snapshot()

	ev := log.Debug().Str("run_id", e.RunID.String()).Int("steps", stats.Steps).Dur("duration", stats.Duration)
	if res.Err != nil {
		ev = ev.Err(res.Err)
	}
	ev.Msg("Run: finished")
	return res
}

// visit stores the current state and fails if it has been seen before.
func (e *Executor) visit(in *interp.Interpreter, stats *Statistics) error {
	s := in.Snapshot()
	h, err := e.Store.Put(s)
	if err != nil {
		return fmt.Errorf("storing state: %w", err)
	}
	if prev := e.Store.Visits(h); len(prev) > 0 {
		log.Debug().Str("hash", h.String()).Int("step", stats.Steps).Int("first_seen", prev[0]).Msg("Run: duplicate state")
		return &NonTerminationError{Step: stats.Steps, FirstSeen: prev[0], Hash: h, State: s}
	}
	e.Store.RecordVisit(h, stats.Steps)
	stats.UniqueStates++
	return nil
}
