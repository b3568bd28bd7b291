package plan

import (
	"testing"
)

func validPlan() CheckPlan {
	return CheckPlan{
		APIVersion: APIVersion,
		Kind:       Kind,
		Meta:       PlanMeta{Name: "test"},
		Subject:    SubjectSpec{Kind: KindCollection},
		Checks: []CheckSpec{
			{Check: "NotBeEmpty"},
			{Check: "HaveCount", Args: map[string]any{"count": 2}},
		},
	}
}

func assertHasFieldError(t *testing.T, result ValidationResult, field string) {
	t.Helper()
	for _, e := range result.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("expected validation error for field %q, got: %s", field, result.Error())
}

func TestValidateValid(t *testing.T) {
	result := Validate(validPlan())
	if !result.Valid() {
		t.Errorf("expected valid, got errors: %s", result.Error())
	}
	if result.Error() != "" {
		t.Errorf("Error() = %q for a valid plan", result.Error())
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *CheckPlan)
		field  string
	}{
		{"missing apiVersion", func(p *CheckPlan) { p.APIVersion = "" }, "apiVersion"},
		{"bad apiVersion", func(p *CheckPlan) { p.APIVersion = "should/v9" }, "apiVersion"},
		{"missing kind", func(p *CheckPlan) { p.Kind = "" }, "kind"},
		{"bad kind", func(p *CheckPlan) { p.Kind = "Pipeline" }, "kind"},
		{"missing name", func(p *CheckPlan) { p.Meta.Name = "  " }, "meta.name"},
		{"missing subject kind", func(p *CheckPlan) { p.Subject.Kind = "" }, "subject.kind"},
		{"unknown subject kind", func(p *CheckPlan) { p.Subject.Kind = "xml" }, "subject.kind"},
		{"bad mode", func(p *CheckPlan) { p.Mode = "panic" }, "mode"},
		{"no checks", func(p *CheckPlan) { p.Checks = nil }, "checks"},
		{"empty check name", func(p *CheckPlan) { p.Checks[0].Check = "" }, "checks[0].check"},
		{"unknown check", func(p *CheckPlan) { p.Checks[0].Check = "BeTrue" }, "checks[0].check"},
		{"missing arg", func(p *CheckPlan) { p.Checks[1].Args = nil }, "checks[1].args.count"},
		{"null arg", func(p *CheckPlan) { p.Checks[1].Args["count"] = nil }, "checks[1].args.count"},
		{"because args without template", func(p *CheckPlan) { p.Checks[0].BecauseArgs = []any{1} }, "checks[0].because"},
		{"malformed because", func(p *CheckPlan) {
			p.Checks[0].Because = "holds {0"
			p.Checks[0].BecauseArgs = []any{1}
		}, "checks[0].because"},
		{"because index out of range", func(p *CheckPlan) {
			p.Checks[0].Because = "holds {1}"
			p.Checks[0].BecauseArgs = []any{1}
		}, "checks[0].because"},
		{"unnamed param", func(p *CheckPlan) { p.Params = []ParamDef{{Default: 1}} }, "params[0].name"},
		{"duplicate param", func(p *CheckPlan) {
			p.Params = []ParamDef{{Name: "a"}, {Name: "a"}}
		}, "params[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlan()
			tt.mutate(&p)
			result := Validate(p)
			if result.Valid() {
				t.Fatal("expected validation errors")
			}
			assertHasFieldError(t, result, tt.field)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	result := Validate(CheckPlan{})
	if len(result.Errors) < 5 {
		t.Errorf("expected every missing field to be reported, got %d: %s", len(result.Errors), result.Error())
	}
}

func TestValidateVerbatimBecause(t *testing.T) {
	p := validPlan()
	p.Checks[0].Because = "braces {like this} stay verbatim without args"
	if result := Validate(p); !result.Valid() {
		t.Errorf("expected valid, got errors: %s", result.Error())
	}
}

func TestValidateEveryKindCheck(t *testing.T) {
	for _, k := range Kinds() {
		for _, name := range Checks(k) {
			required, ok := RequiredArgs(k, name)
			if !ok {
				t.Fatalf("RequiredArgs(%s, %s) not found", k, name)
			}
			c := CheckSpec{Check: name, Args: map[string]any{}}
			for _, a := range required {
				c.Args[a] = "x"
			}
			p := validPlan()
			p.Subject.Kind = k
			p.Checks = []CheckSpec{c}
			if result := Validate(p); !result.Valid() {
				t.Errorf("%s/%s: %s", k, name, result.Error())
			}
		}
	}
}
