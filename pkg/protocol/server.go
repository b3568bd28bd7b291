package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/journal"
	"github.com/cgast/should/pkg/plan"
	"github.com/cgast/should/pkg/should"
)

// History is the read side of a run journal.
type History interface {
	Plans() ([]string, error)
	List(plan string, limit int) ([]journal.Entry, error)
}

// FileGuard decides whether a client may have a file read for it.
type FileGuard interface {
	CheckFile(path string) error
}

type server struct {
	runner  *plan.Runner
	history History
	guard   FileGuard
}

// ServerOption configures NewServer.
type ServerOption func(*server)

// WithHistory serves the history method from hist.
func WithHistory(hist History) ServerOption {
	return func(s *server) { s.history = hist }
}

// WithFileGuard checks every plan and subject path a request names.
func WithFileGuard(g FileGuard) ServerOption {
	return func(s *server) { s.guard = g }
}

// NewServer returns a handler serving every method against runner.
// Without WithHistory the history method reports CodeNoHistory.
func NewServer(runner *plan.Runner, opts ...ServerOption) *Handler {
	s := &server{runner: runner}
	for _, o := range opts {
		o(s)
	}
	h := NewHandler()

	h.Register(MethodPlanValidate, func(params json.RawMessage) (any, *Error) {
		p, rpcErr := ParseParams[PlanParams](params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		cp, rpcErr := s.readPlan(p)
		if rpcErr != nil {
			return nil, rpcErr
		}
		res := plan.Validate(cp)
		return ValidateResult{Valid: res.Valid(), Errors: res.Errors}, nil
	})

	h.Register(MethodPlanRun, func(params json.RawMessage) (any, *Error) {
		p, rpcErr := ParseParams[RunParams](params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		if p.Plan == "" {
			if rpcErr := s.checkFile(p.Path); rpcErr != nil {
				return nil, rpcErr
			}
		}
		cp, err := s.loadPlan(p.PlanParams)
		if err != nil {
			return nil, runError(err)
		}
		if p.Mode != "" {
			cp.Mode = p.Mode
		}
		subject, rpcErr := s.subject(p)
		if rpcErr != nil {
			return nil, rpcErr
		}
		report, err := s.runner.Run(cp, subject)
		var recErr *plan.RecordError
		if err != nil && !errors.As(err, &recErr) {
			return nil, runError(err)
		}
		return report, nil
	})

	h.Register(MethodCodesList, func(params json.RawMessage) (any, *Error) {
		p, rpcErr := ParseParams[CodesListParams](params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		prefix := fault.Parse(strings.TrimSuffix(p.Prefix, fault.Separator))
		codes := []fault.Code{}
		for _, c := range should.Codes() {
			if c.HasPrefix(prefix) {
				codes = append(codes, c)
			}
		}
		return CodesListResult{Codes: codes}, nil
	})

	h.Register(MethodChecksList, func(params json.RawMessage) (any, *Error) {
		p, rpcErr := ParseParams[ChecksListParams](params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		kind := plan.SubjectKind(p.Kind)
		names := plan.Checks(kind)
		if names == nil {
			return nil, &Error{
				Code:    CodeUnknownKind,
				Message: fmt.Sprintf("unknown subject kind %q", p.Kind),
				Data:    plan.Kinds(),
			}
		}
		infos := make([]CheckInfo, len(names))
		for i, name := range names {
			args, _ := plan.RequiredArgs(kind, name)
			infos[i] = CheckInfo{Name: name, Args: args}
		}
		return infos, nil
	})

	h.Register(MethodHistory, func(params json.RawMessage) (any, *Error) {
		if s.history == nil {
			return nil, &Error{Code: CodeNoHistory, Message: "run journal is disabled"}
		}
		p, rpcErr := ParseParams[HistoryParams](params)
		if rpcErr != nil {
			return nil, rpcErr
		}
		if p.Plan == "" {
			plans, err := s.history.Plans()
			if err != nil {
				return nil, &Error{Code: CodeInternalError, Message: err.Error()}
			}
			return HistoryResult{Plans: plans}, nil
		}
		entries, err := s.history.List(p.Plan, p.Limit)
		if errors.Is(err, journal.ErrNoPlan) {
			return nil, &Error{Code: CodeNoHistory, Message: err.Error()}
		}
		if err != nil {
			return nil, &Error{Code: CodeInternalError, Message: err.Error()}
		}
		return HistoryResult{Entries: entries}, nil
	})

	return h
}

func (s *server) checkFile(path string) *Error {
	if s.guard == nil || path == "" {
		return nil
	}
	if err := s.guard.CheckFile(path); err != nil {
		return &Error{Code: CodeForbidden, Message: err.Error()}
	}
	return nil
}

// subject returns the inline subject, or decodes the file SubjectPath
// names when it is set.
func (s *server) subject(p RunParams) (any, *Error) {
	if p.SubjectPath == "" {
		return p.Subject, nil
	}
	if rpcErr := s.checkFile(p.SubjectPath); rpcErr != nil {
		return nil, rpcErr
	}
	v, err := plan.LoadSubject(p.SubjectPath)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return v, nil
}

// readPlan reads a plan without validating it.
func (s *server) readPlan(p PlanParams) (plan.CheckPlan, *Error) {
	var (
		cp  plan.CheckPlan
		err error
	)
	switch {
	case p.Plan != "":
		cp, err = plan.Parse([]byte(p.Plan), p.Params)
	case p.Path != "":
		if rpcErr := s.checkFile(p.Path); rpcErr != nil {
			return cp, rpcErr
		}
		cp, err = plan.Load(p.Path, p.Params)
	default:
		return cp, &Error{Code: CodeInvalidParams, Message: "one of plan or path is required"}
	}
	if err != nil {
		return cp, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return cp, nil
}

func (s *server) loadPlan(p PlanParams) (plan.CheckPlan, error) {
	switch {
	case p.Plan != "":
		return s.runner.Parse([]byte(p.Plan), p.Params)
	case p.Path != "":
		return s.runner.Load(p.Path, p.Params)
	}
	return plan.CheckPlan{}, errors.New("one of plan or path is required")
}

// runError maps plan errors onto error objects.
func runError(err error) *Error {
	var (
		invalid plan.ValidationResult
		subject *plan.SubjectError
	)
	switch {
	case errors.As(err, &invalid):
		return &Error{Code: CodePlanInvalid, Message: err.Error(), Data: invalid.Errors}
	case errors.As(err, &subject):
		return &Error{Code: CodeSubjectInvalid, Message: err.Error(), Data: map[string]string{"kind": string(subject.Kind)}}
	}
	return &Error{Code: CodeInvalidParams, Message: err.Error()}
}
