// Package plan runs declarative check plans: a YAML document that names a
// subject kind and an ordered list of catalog checks to apply to a subject
// decoded from JSON or YAML.
package plan

// APIVersion and Kind identify a check plan document.
const (
	APIVersion = "should/v1"
	Kind       = "CheckPlan"
)

// CheckPlan is one declarative chain of checks against a single subject.
type CheckPlan struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Meta       PlanMeta    `yaml:"meta" json:"meta"`
	Subject    SubjectSpec `yaml:"subject" json:"subject"`
	Mode       string      `yaml:"mode,omitempty" json:"mode,omitempty"` // "collect" or "raise"; empty uses the runner default
	Checks     []CheckSpec `yaml:"checks" json:"checks"`
	Params     []ParamDef  `yaml:"params,omitempty" json:"params,omitempty"`
}

// PlanMeta contains metadata about the plan.
type PlanMeta struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// SubjectSpec declares how the subject document is interpreted.
type SubjectSpec struct {
	Kind SubjectKind `yaml:"kind" json:"kind"`
}

// CheckSpec names one catalog check and its arguments.
type CheckSpec struct {
	Check       string         `yaml:"check" json:"check"`
	Args        map[string]any `yaml:"args,omitempty" json:"args,omitempty"`
	Because     string         `yaml:"because,omitempty" json:"because,omitempty"`
	BecauseArgs []any          `yaml:"because_args,omitempty" json:"because_args,omitempty"`
}

// reason converts Because and BecauseArgs into the msgAndArgs tail that
// catalog methods accept.
func (c CheckSpec) reason() []any {
	if c.Because == "" {
		return nil
	}
	return append([]any{c.Because}, c.BecauseArgs...)
}

// ParamDef defines a {{name}} variable and its default value.
type ParamDef struct {
	Name        string `yaml:"name" json:"name"`
	Default     any    `yaml:"default" json:"default"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// SubjectKind selects the catalog a plan's checks bind to.
type SubjectKind string

const (
	KindCollection SubjectKind = "collection"
	KindDictionary SubjectKind = "dictionary"
	KindText       SubjectKind = "text"
	KindNumber     SubjectKind = "number"
	KindBool       SubjectKind = "bool"
	KindDate       SubjectKind = "date"
	KindGUID       SubjectKind = "guid"
	KindVersion    SubjectKind = "version"
	KindDocument   SubjectKind = "document"
)
