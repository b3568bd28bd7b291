package plan

import (
	"fmt"
	"strings"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds all validation errors for a plan.
type ValidationResult struct {
	Errors []ValidationError
}

// Valid returns true if no validation errors were found.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Error returns a combined error message from all validation errors.
func (r ValidationResult) Error() string {
	if r.Valid() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a CheckPlan for required fields, known checks and
// well-formed because templates.
func Validate(p CheckPlan) ValidationResult {
	var result ValidationResult

	if p.APIVersion == "" {
		result.add("apiVersion", "required")
	} else if p.APIVersion != APIVersion {
		result.add("apiVersion", "unsupported version %q (expected %s)", p.APIVersion, APIVersion)
	}

	if p.Kind == "" {
		result.add("kind", "required")
	} else if p.Kind != Kind {
		result.add("kind", "unsupported kind %q (expected %s)", p.Kind, Kind)
	}

	if strings.TrimSpace(p.Meta.Name) == "" {
		result.add("meta.name", "required")
	}

	def, knownKind := kinds[p.Subject.Kind]
	if p.Subject.Kind == "" {
		result.add("subject.kind", "required")
	} else if !knownKind {
		result.add("subject.kind", "unknown subject kind %q", p.Subject.Kind)
	}

	if _, err := verify.ParseMode(p.Mode); err != nil {
		result.add("mode", "%v", err)
	}

	if len(p.Checks) == 0 {
		result.add("checks", "at least one check is required")
	}
	for i, c := range p.Checks {
		field := fmt.Sprintf("checks[%d]", i)
		if c.Check == "" {
			result.add(field+".check", "required")
			continue
		}
		if knownKind {
			required, ok := def.checks[c.Check]
			if !ok {
				result.add(field+".check", "unknown check %q for subject kind %s", c.Check, p.Subject.Kind)
			}
			for _, name := range required {
				if v, present := c.Args[name]; !present || v == nil {
					result.add(field+".args."+name, "required")
				}
			}
		}
		if c.Because == "" && len(c.BecauseArgs) > 0 {
			result.add(field+".because", "required when because_args is set")
		}
		if err := checkTemplate(c.Because, c.BecauseArgs); err != nil {
			result.add(field+".because", "%s", err.Reason)
		}
	}

	names := make(map[string]bool)
	for i, param := range p.Params {
		field := fmt.Sprintf("params[%d].name", i)
		switch {
		case param.Name == "":
			result.add(field, "required")
		case names[param.Name]:
			result.add(field, "duplicate param name %q", param.Name)
		default:
			names[param.Name] = true
		}
	}

	return result
}

// checkTemplate renders a because template once to surface format errors
// before any check runs.
func checkTemplate(template string, args []any) (err *fault.FormatError) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*fault.FormatError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()
	fault.Because(template, args...)
	return nil
}
