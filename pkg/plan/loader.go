package plan

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML plan file and returns the parsed CheckPlan.
// Template variables like {{date}} and {{param_name}} are interpolated
// using the provided params (or defaults from the plan).
func Load(path string, params map[string]string) (CheckPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckPlan{}, fmt.Errorf("read plan %s: %w", path, err)
	}

	return Parse(data, params)
}

// Parse parses YAML data into a CheckPlan with variable interpolation.
// Substitution happens inside scalar values of the parsed document, so a
// value containing a newline or ": " stays one scalar.
func Parse(data []byte, params map[string]string) (CheckPlan, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return CheckPlan{}, fmt.Errorf("parse plan: %w", err)
	}
	if doc.Kind == 0 {
		return CheckPlan{}, nil // empty document
	}

	// First pass: decode to get param defaults.
	var raw CheckPlan
	if err := doc.Decode(&raw); err != nil {
		return CheckPlan{}, fmt.Errorf("parse plan: %w", err)
	}

	interpolateNode(&doc, buildVarMap(raw.Params, params))

	var p CheckPlan
	if err := doc.Decode(&p); err != nil {
		return CheckPlan{}, fmt.Errorf("parse interpolated plan: %w", err)
	}

	return p, nil
}

// interpolateNode rewrites every scalar under n that holds a template
// variable. A plain scalar is retagged as a string after substitution.
func interpolateNode(n *yaml.Node, vars map[string]string) {
	if n.Kind == yaml.ScalarNode {
		if v := interpolateVars(n.Value, vars); v != n.Value {
			n.Value = v
			if n.Style == 0 {
				n.Tag = "!!str"
			}
		}
		return
	}
	for _, child := range n.Content {
		interpolateNode(child, vars)
	}
}

// buildVarMap creates a variable map from param defaults and runtime overrides.
// Built-in variables like {{date}} are always available.
func buildVarMap(paramDefs []ParamDef, overrides map[string]string) map[string]string {
	vars := make(map[string]string)

	now := time.Now()
	vars["date"] = now.Format("2006-01-02")
	vars["datetime"] = now.Format(time.RFC3339)
	vars["year"] = now.Format("2006")

	for _, p := range paramDefs {
		if p.Default != nil {
			vars[p.Name] = fmt.Sprintf("%v", p.Default)
		}
	}

	for k, v := range overrides {
		vars[k] = v
	}

	return vars
}

// templatePattern matches {{var_name}}. Names start with a letter or an
// underscore, so because placeholders such as {0} are left alone.
var templatePattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// interpolateVars replaces {{var_name}} patterns with values from the var map.
func interpolateVars(s string, vars map[string]string) string {
	return templatePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
		if val, ok := vars[name]; ok {
			return val
		}
		return match // Leave unresolved.
	})
}
