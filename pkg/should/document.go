package should

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	DocumentFamily      = Assertion.Compose("Document")
	DocumentHaveField   = check(DocumentFamily, "HaveField")
	DocumentMatchSchema = check(DocumentFamily, "MatchSchema")
	DocumentSatisfy     = check(DocumentFamily, "Satisfy")
)

// DocumentAssertions checks a decoded JSON or YAML value: nil, bool,
// float64, string, []any or map[string]any.
type DocumentAssertions struct {
	*verify.Engine[any]
}

// Document starts a collecting chain on subject.
func Document(subject any, opts ...verify.Option) *DocumentAssertions {
	return &DocumentAssertions{collect(subject, opts)}
}

// MustDocument starts a raising chain on subject.
func MustDocument(subject any, opts ...verify.Option) *DocumentAssertions {
	return &DocumentAssertions{raise(subject, opts)}
}

// And returns a.
func (a *DocumentAssertions) And() *DocumentAssertions {
	return a
}

// HaveField checks that a dot-separated path such as "items.0.name"
// resolves inside the document. Numeric segments index arrays.
func (a *DocumentAssertions) HaveField(path string, msgAndArgs ...any) *DocumentAssertions {
	a.Assert(func(doc any) bool { _, ok := lookup(doc, path); return ok },
		DocumentHaveField,
		fault.Because("expected document to have field {0}", strconv.Quote(path)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("path", path)
		}))
	return a
}

// MatchSchema validates the document against a JSON Schema (draft 2020-12
// unless the schema declares otherwise). A schema that does not compile
// fails the check.
func (a *DocumentAssertions) MatchSchema(schema string, msgAndArgs ...any) *DocumentAssertions {
	compiled, compileErr := compileSchema(schema)
	var validateErr error
	a.Assert(func(doc any) bool {
		if compileErr != nil {
			return false
		}
		validateErr = compiled.Validate(doc)
		return validateErr == nil
	},
		DocumentMatchSchema,
		"expected document to match schema",
		describe(msgAndArgs, func(err *fault.Error) {
			switch {
			case compileErr != nil:
				err.With("error", compileErr.Error())
			case validateErr != nil:
				err.With("violation", validateErr.Error())
			}
		}))
	return a
}

// Satisfy evaluates a boolean CEL expression with the document bound to
// the variable "subject", for example `size(subject.items) > 2`.
func (a *DocumentAssertions) Satisfy(expression string, msgAndArgs ...any) *DocumentAssertions {
	prg, compileErr := compileExpression(expression)
	var evalErr error
	a.Assert(func(doc any) bool {
		if compileErr != nil {
			return false
		}
		var ok bool
		ok, evalErr = evaluate(prg, doc)
		return evalErr == nil && ok
	},
		DocumentSatisfy,
		fault.Because("expected document to satisfy {0}", expression),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expression", expression)
			switch {
			case compileErr != nil:
				err.With("error", compileErr.Error())
			case evalErr != nil:
				err.With("error", evalErr.Error())
			}
		}))
	return a
}

func compileSchema(schema string) (*jsonschema.Schema, error) {
	const url = "https://should.schemas.local/document.schema.json"
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("schema load failed: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema compile failed: %w", err)
	}
	return compiled, nil
}

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("subject", cel.DynType))
})

func compileExpression(expression string) (cel.Program, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("CEL env: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return prg, nil
}

func evaluate(prg cel.Program, doc any) (bool, error) {
	out, _, err := prg.Eval(map[string]any{"subject": doc})
	if err != nil {
		return false, fmt.Errorf("CEL eval error: %w", err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("CEL result is %T, not bool", out.Value())
	}
	return ok, nil
}

// lookup walks a dot-separated path through maps and slices.
func lookup(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
