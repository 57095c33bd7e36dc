package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timewinder-dev/scopevm/cas"
	"github.com/timewinder-dev/scopevm/interp"
)

type Statistics struct {
	Steps         int
	MaxValueDepth int
	MaxScopeDepth int
	// UniqueStates is only counted when loop detection is on.
	UniqueStates int
	Duration     time.Duration
	Cache        *cas.CacheStats
}

type Result struct {
	Success     bool
	RunID       uuid.UUID
	ProgramHash cas.Hash
	Err         error
	Output      string
	Final       *interp.State
	Statistics  Statistics
}

// Check compares the result against the expectations of a spec.
func (r *Result) Check(exp Expect) error {
	if exp.Error != nil {
		if r.Err == nil {
			return fmt.Errorf("expected an error containing %q, run succeeded", *exp.Error)
		}
		if !strings.Contains(r.Err.Error(), *exp.Error) {
			return fmt.Errorf("expected an error containing %q, got: %v", *exp.Error, r.Err)
		}
	} else if r.Err != nil {
		return fmt.Errorf("unexpected error: %w", r.Err)
	}
	if exp.Output != nil && r.Output != *exp.Output {
		return fmt.Errorf("output mismatch:\nexpected: %q\n     got: %q", *exp.Output, r.Output)
	}
	return nil
}
