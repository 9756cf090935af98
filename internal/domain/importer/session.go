package importer

import (
	"context"
	"fmt"

	"credvault/internal/model"
)

type State int

const (
	StateEmpty State = iota
	StateParsed
	StateConfigured
	StatePreviewed
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateConfigured:
		return "configured"
	case StatePreviewed:
		return "previewed"
	case StateCommitted:
		return "committed"
	default:
		return "empty"
	}
}

// Committer persists an accepted batch and returns how many services were stored.
type Committer interface {
	Import(ctx context.Context, result Result) (int, error)
}

// Session walks one import through parse, configure, preview and commit.
type Session struct {
	newID func() string

	state  State
	table  Table
	config Config
	result Result
}

func NewSession(newID func() string) *Session {
	return &Session{newID: newID}
}

func (s *Session) State() State   { return s.state }
func (s *Session) Table() Table   { return s.table }
func (s *Session) Result() Result { return s.result }

// Parse replaces any previous input and drops the session back to parsed.
func (s *Session) Parse(input, separator string) error {
	table, err := Parse(input, separator)
	if err != nil {
		return err
	}
	s.table = table
	s.config = Config{}
	s.result = Result{}
	s.state = StateParsed
	return nil
}

func (s *Session) Configure(vault *model.Vault, cfg Config) error {
	if s.state == StateEmpty || s.state == StateCommitted {
		return fmt.Errorf("%w: configure in state %s", ErrInvalidState, s.state)
	}
	if err := cfg.Validate(vault, s.table); err != nil {
		return err
	}
	s.config = cfg
	s.result = Result{}
	s.state = StateConfigured
	return nil
}

// Preview reconciles the rows against vault without side effects.
func (s *Session) Preview(vault *model.Vault) (Result, error) {
	if s.state != StateConfigured && s.state != StatePreviewed {
		return Result{}, fmt.Errorf("%w: preview in state %s", ErrInvalidState, s.state)
	}
	res, err := Reconcile(vault, s.table, s.config, s.newID)
	if err != nil {
		return Result{}, err
	}
	s.result = res
	s.state = StatePreviewed
	return res, nil
}

// Commit hands the previewed batch to c. An empty batch succeeds without calling c.
// On failure the session stays previewed so the commit can be retried.
func (s *Session) Commit(ctx context.Context, c Committer) (Result, error) {
	if s.state != StatePreviewed {
		return Result{}, fmt.Errorf("%w: commit in state %s", ErrInvalidState, s.state)
	}
	if s.result.Accepted > 0 {
		if _, err := c.Import(ctx, s.result); err != nil {
			return Result{}, fmt.Errorf("commit import: %w", err)
		}
	}
	s.state = StateCommitted
	return s.result, nil
}
