package protocol

import (
	"encoding/json"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/journal"
	"github.com/cgast/should/pkg/plan"
)

// JSON-RPC 2.0 message types for serve mode.

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"` // string or number; nil for notifications
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Application error codes. A failing check is not an error: plan.run
// answers with a report whose passed field is false.
const (
	CodePlanInvalid    = -32000
	CodeSubjectInvalid = -32001
	CodeUnknownKind    = -32002
	CodeNoHistory      = -32003
	CodeForbidden      = -32004
)

// Methods served by should serve.
const (
	MethodPlanValidate = "plan.validate"
	MethodPlanRun      = "plan.run"
	MethodCodesList    = "codes.list"
	MethodChecksList   = "checks.list"
	MethodHistory      = "history"
)

// NewResponse creates a successful response.
func NewResponse(id any, result any) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id any, code int, message string, data any) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// PlanParams names a plan either by path or inline YAML. Inline wins when
// both are set.
type PlanParams struct {
	Path   string            `json:"path,omitempty"`
	Plan   string            `json:"plan,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// RunParams holds parameters for "plan.run". SubjectPath, when set,
// names a JSON or YAML file that replaces Subject.
type RunParams struct {
	PlanParams
	Subject     any    `json:"subject"`
	SubjectPath string `json:"subject_path,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// ValidateResult is the result of "plan.validate".
type ValidateResult struct {
	Valid  bool                   `json:"valid"`
	Errors []plan.ValidationError `json:"errors,omitempty"`
}

// CodesListParams holds parameters for "codes.list".
type CodesListParams struct {
	Prefix string `json:"prefix,omitempty"`
}

// ChecksListParams holds parameters for "checks.list".
type ChecksListParams struct {
	Kind string `json:"kind"`
}

// CheckInfo describes one check a subject kind accepts.
type CheckInfo struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// HistoryParams holds parameters for "history". Without a plan the
// result lists plan names.
type HistoryParams struct {
	Plan  string `json:"plan,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// CodesListResult is the result of "codes.list".
type CodesListResult struct {
	Codes []fault.Code `json:"codes"`
}

// HistoryResult is the result of "history".
type HistoryResult struct {
	Plans   []string        `json:"plans,omitempty"`
	Entries []journal.Entry `json:"entries,omitempty"`
}
