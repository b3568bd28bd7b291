package should

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/outcome"
)

// failure returns the fault of a failed void outcome, or nil on success.
func failure(v outcome.Void) *fault.Error {
	if v.IsSuccess() {
		return nil
	}
	return v.Err()
}

func meta(t *testing.T, err *fault.Error, key string) string {
	t.Helper()
	require.NotNil(t, err)
	v, ok := err.Get(key)
	require.True(t, ok, "missing metadata %q in %v", key, err)
	return v
}

func TestSliceChecks(t *testing.T) {
	tests := []struct {
		name string
		run  func() outcome.Void
		want fault.Code
	}{
		{"empty passes", func() outcome.Void { return Slice([]int{}).BeEmpty().VoidResult() }, fault.Code{}},
		{"empty fails", func() outcome.Void { return Slice([]int{1}).BeEmpty().VoidResult() }, CollectionBeEmpty},
		{"nil is empty", func() outcome.Void { return Slice[int](nil).BeEmpty().VoidResult() }, fault.Code{}},
		{"count greater than", func() outcome.Void { return Slice([]int{1, 2}).HaveCountGreaterThan(2).VoidResult() }, CollectionHaveCountGreaterThan},
		{"contain", func() outcome.Void { return Slice([]string{"a", "b"}).Contain("b").VoidResult() }, fault.Code{}},
		{"not contain", func() outcome.Void { return Slice([]string{"a", "b"}).NotContain("b").VoidResult() }, CollectionNotContain},
		{"unique", func() outcome.Void { return Slice([]int{1, 2, 3}).OnlyHaveUniqueItems().VoidResult() }, fault.Code{}},
		{"duplicate", func() outcome.Void { return Slice([]int{1, 2, 1}).OnlyHaveUniqueItems().VoidResult() }, CollectionOnlyHaveUniqueItems},
		{"all satisfy", func() outcome.Void {
			return Slice([]int{2, 4}).AllSatisfy("even", func(n int) bool { return n%2 == 0 }).VoidResult()
		}, fault.Code{}},
		{"not all satisfy", func() outcome.Void {
			return Slice([]int{2, 3}).AllSatisfy("even", func(n int) bool { return n%2 == 0 }).VoidResult()
		}, CollectionAllSatisfy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := failure(tt.run())
			if tt.want.IsZero() {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Code())
		})
	}
}

func TestSliceMetadata(t *testing.T) {
	err := Slice([]string{"x", "y", "x"}).OnlyHaveUniqueItems().Result().Err()
	assert.Equal(t, "x", meta(t, err, "duplicateItem"))
	assert.Equal(t, "2", meta(t, err, "index"))

	err = Slice([]int{2, 4, 5}).AllSatisfy("even", func(n int) bool { return n%2 == 0 }).Result().Err()
	assert.Equal(t, "5", meta(t, err, "failingItem"))
	assert.Equal(t, "even", meta(t, err, "predicate"))
	assert.Equal(t, "expected all items to satisfy even", err.Message())

	err = Slice([]string{"a", "b"}).NotContain("b").Result().Err()
	assert.Equal(t, "1", meta(t, err, "index"))

	assert.PanicsWithValue(t, "should: AllSatisfy called with a nil predicate", func() {
		Slice([]int{}).AllSatisfy("nil", nil)
	})
}

func TestMapChecks(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}

	assert.True(t, Map(m).HaveCount(2).ContainKey("a").NotContainKey("c").VoidResult().IsSuccess())
	assert.True(t, Map(map[string]int{}).BeEmpty().VoidResult().IsSuccess())

	err := Map(m).NotContainKey("b").Result().Err()
	assert.Equal(t, DictionaryNotContainKey, err.Code())
	assert.Equal(t, "2", meta(t, err, "actualValue"))

	err = Map(m).HaveCount(3).Result().Err()
	assert.Equal(t, "expected dictionary to contain 3 entries", err.Message())
	assert.Equal(t, "2", meta(t, err, "actualCount"))
}

func TestTextChecks(t *testing.T) {
	tests := []struct {
		name string
		run  func() outcome.Void
		want fault.Code
	}{
		{"blank is empty", func() outcome.Void { return String("").BeEmpty().VoidResult() }, fault.Code{}},
		{"whitespace is empty for NotBeEmpty", func() outcome.Void { return String("  \t").NotBeEmpty().VoidResult() }, TextNotBeEmpty},
		{"contain", func() outcome.Void { return String("hello world").Contain("lo w").VoidResult() }, fault.Code{}},
		{"start with", func() outcome.Void { return String("hello").StartWith("he").EndWith("lo").VoidResult() }, fault.Code{}},
		{"end with fails", func() outcome.Void { return String("hello").EndWith("he").VoidResult() }, TextEndWith},
		{"length counts runes", func() outcome.Void { return String("héllo").HaveLength(5).VoidResult() }, fault.Code{}},
		{"regex", func() outcome.Void { return String("v1.2.3").MatchRegex(`^v\d+\.\d+\.\d+$`).VoidResult() }, fault.Code{}},
		{"regex mismatch", func() outcome.Void { return String("1.2").MatchRegex(`^v`).VoidResult() }, TextMatchRegex},
		{"invalid regex", func() outcome.Void { return String("x").MatchRegex(`(`).VoidResult() }, TextMatchRegex},
		{"glob", func() outcome.Void { return String("cmd/should/main.go").MatchGlob("cmd/**/*.go").VoidResult() }, fault.Code{}},
		{"glob mismatch", func() outcome.Void { return String("pkg/plan/plan.go").MatchGlob("cmd/**/*.go").VoidResult() }, TextMatchGlob},
		{"invalid glob", func() outcome.Void { return String("a").MatchGlob("[").VoidResult() }, TextMatchGlob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := failure(tt.run())
			if tt.want.IsZero() {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Code())
		})
	}
}

func TestTextMetadata(t *testing.T) {
	err := String("x").MatchRegex(`(`).Result().Err()
	assert.Contains(t, meta(t, err, "error"), "missing closing )")

	err = String(strings.Repeat("a", 300)).Contain("b").Result().Err()
	actual := meta(t, err, "actual")
	assert.True(t, strings.HasSuffix(actual, `..."`), actual)

	// The 200-byte cut lands inside an "é" and backs up to the rune start.
	err = String("a" + strings.Repeat("é", 150)).Contain("b").Result().Err()
	actual = meta(t, err, "actual")
	assert.NotContains(t, actual, `\x`)
	assert.Equal(t, `"a`+strings.Repeat("é", 99)+`..."`, actual)

	err = String("héllo").HaveLength(3).Result().Err()
	assert.Equal(t, "5", meta(t, err, "actualLength"))
}

func TestNumberChecks(t *testing.T) {
	assert.True(t, Number(5).Be(5).BeGreaterThan(4).BeLessThan(6).BeInRange(5, 5).BePositive().VoidResult().IsSuccess())

	err := Number(2.5).BeInRange(3, 4).Result().Err()
	assert.Equal(t, NumericBeInRange, err.Code())
	assert.Equal(t, "expected value to be between 3 and 4", err.Message())
	assert.Equal(t, "2.5", meta(t, err, "actual"))

	assert.Equal(t, NumericBePositive, Number(0).BePositive().Result().Err().Code())
	assert.Equal(t, NumericBe, Number("a").Be("b").Result().Err().Code())
}

func TestBoolChecks(t *testing.T) {
	assert.True(t, Bool(true).BeTrue().VoidResult().IsSuccess())
	err := Bool(true).BeFalse().Result().Err()
	assert.Equal(t, BooleanBeFalse, err.Code())
	assert.Equal(t, "true", meta(t, err, "actual"))
}

func TestTimeChecks(t *testing.T) {
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := ref.Add(90 * time.Second)

	assert.True(t, Time(at).BeAfter(ref).BeWithin(2*time.Minute, ref).NotBeZero().VoidResult().IsSuccess())
	assert.True(t, Time(ref).BeWithin(2*time.Minute, at).VoidResult().IsSuccess())

	err := Time(at).BeWithin(time.Minute, ref).Result().Err()
	assert.Equal(t, DateBeWithin, err.Code())
	assert.Equal(t, "1m30s", meta(t, err, "difference"))

	assert.Equal(t, DateBeBefore, Time(at).BeBefore(ref).Result().Err().Code())
	assert.Equal(t, DateNotBeZero, Time(time.Time{}).NotBeZero().Result().Err().Code())
}

func TestGUIDChecks(t *testing.T) {
	id := uuid.New()
	assert.True(t, GUID(id).NotBeEmpty().HaveVersion(4).VoidResult().IsSuccess())
	assert.True(t, GUID(uuid.Nil).BeEmpty().VoidResult().IsSuccess())

	err := GUID(id).HaveVersion(7).Result().Err()
	assert.Equal(t, GUIDHaveVersion, err.Code())
	assert.Equal(t, "4", meta(t, err, "actualVersion"))
	assert.Equal(t, id.String(), meta(t, err, "actual"))

	assert.Equal(t, GUIDNotBeEmpty, GUID(uuid.Nil).NotBeEmpty().Result().Err().Code())
}

func TestVersionChecks(t *testing.T) {
	v := semver.MustParse("1.4.2")
	assert.True(t, Version(v).SatisfyConstraint(">= 1.2, < 2").BeGreaterThan("1.4.1").NotBePrerelease().VoidResult().IsSuccess())

	err := Version(v).SatisfyConstraint("^2").Result().Err()
	assert.Equal(t, VersionSatisfyConstraint, err.Code())
	assert.Equal(t, "1.4.2", meta(t, err, "actual"))

	err = Version(v).SatisfyConstraint("not a constraint").Result().Err()
	assert.NotEmpty(t, meta(t, err, "error"))

	err = Version(semver.MustParse("2.0.0-rc.1")).NotBePrerelease().Result().Err()
	assert.Equal(t, VersionNotBePrerelease, err.Code())

	err = Version(nil).BeGreaterThan("0.0.1").Result().Err()
	assert.Equal(t, "<nil>", meta(t, err, "actual"))
}

const orderSchema = `{
	"type": "object",
	"required": ["id", "items"],
	"properties": {
		"id": {"type": "string"},
		"items": {"type": "array", "minItems": 1}
	}
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestDocumentChecks(t *testing.T) {
	doc := decode(t, `{"id": "o-1", "items": [{"sku": "A", "qty": 2}, {"sku": "B", "qty": 1}]}`)

	r := Document(doc).
		HaveField("items.1.sku").
		And().
		MatchSchema(orderSchema).
		Satisfy(`size(subject.items) == 2 && subject.items[0].qty > 1.0`).
		VoidResult()
	assert.True(t, r.IsSuccess(), "%v", r)

	err := Document(doc).HaveField("items.2.sku").Result().Err()
	assert.Equal(t, DocumentHaveField, err.Code())
	assert.Equal(t, "items.2.sku", meta(t, err, "path"))

	err = Document(decode(t, `{"id": 7}`)).MatchSchema(orderSchema).Result().Err()
	assert.Equal(t, DocumentMatchSchema, err.Code())
	assert.NotEmpty(t, meta(t, err, "violation"))

	err = Document(doc).MatchSchema(`{"type": `).Result().Err()
	assert.NotEmpty(t, meta(t, err, "error"))

	err = Document(doc).Satisfy(`subject.id == "o-2"`).Result().Err()
	assert.Equal(t, DocumentSatisfy, err.Code())
	assert.Equal(t, `subject.id == "o-2"`, meta(t, err, "expression"))
	_, hasErr := err.Get("error")
	assert.False(t, hasErr)

	err = Document(doc).Satisfy(`subject.id +`).Result().Err()
	assert.Contains(t, meta(t, err, "error"), "CEL compile error")

	err = Document(doc).Satisfy(`subject.id`).Result().Err()
	assert.Contains(t, meta(t, err, "error"), "not bool")
}

func TestValueSatisfy(t *testing.T) {
	type order struct{ Total int }

	r := That(order{Total: 10}).Satisfy("PositiveTotal", func(o order) bool { return o.Total > 0 }).Result()
	require.True(t, r.IsSuccess())
	assert.Equal(t, 10, r.Value().Total)

	err := That(order{}).Satisfy("PositiveTotal", func(o order) bool { return o.Total > 0 }).Result().Err()
	assert.Equal(t, "Assertion/Value/PositiveTotal", err.Code().String())
	assert.Equal(t, "{0}", meta(t, err, "actual"))

	raised := func() (err *fault.Error) {
		defer func() { err, _ = recover().(*fault.Error) }()
		MustThat(1).Satisfy("Even", func(n int) bool { return n%2 == 0 })
		return nil
	}()
	require.NotNil(t, raised)
	assert.True(t, fault.HasCode(raised, ValueFamily))
}
