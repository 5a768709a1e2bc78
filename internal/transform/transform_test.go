package transform

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxtools/capgen/internal/parser"
	"github.com/pdxtools/capgen/internal/reset"
	"github.com/pdxtools/capgen/internal/types"
	"github.com/pdxtools/capgen/rules"
	"github.com/pdxtools/capgen/script"
)

func parse(t *testing.T, source string) *script.Document {
	t.Helper()
	doc, err := parser.ParseText([]byte(source), nil)
	require.NoError(t, err)
	return doc
}

// capOf returns capped_resources[key] of entity, or false if absent.
func capOf(t *testing.T, doc *script.Document, entity, key string) (int64, bool) {
	t.Helper()
	v, ok := doc.Get(entity)
	require.True(t, ok, "missing entity %s", entity)
	caps := cappedResources(v)
	require.NotNil(t, caps, "entity %s has no capped_resources", entity)
	c, ok := caps.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := c.AsNumber()
	require.True(t, ok, "%s.%s is not a number", entity, key)
	return n, true
}

func sumRule(produces string, scale float64, inputs ...string) rules.Rule {
	return rules.Rule{Produces: produces, Inputs: inputs, Op: rules.OpSum}.Scaled(scale)
}

func TestEndToEndExample(t *testing.T) {
	doc := parse(t, `STATE_E1 = {
		capped_resources = { building_lead_mine = 10 building_sulfur_mine = 4 }
	}`)
	rep := New(rules.Set{
		sumRule("building_bauxite_mine", 0.5, "building_lead_mine", "building_sulfur_mine"),
	}).Apply(doc)

	got, ok := capOf(t, doc, "STATE_E1", "building_bauxite_mine")
	require.True(t, ok)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, []string{"STATE_E1"}, rep.Entities)
	assert.Equal(t, 1, rep.Derived)
	assert.Empty(t, rep.Diagnostics)
}

func TestCeiling(t *testing.T) {
	tests := []struct {
		total int
		scale float64
		want  int64
	}{
		{10, 0.5, 5},
		{11, 0.5, 6},
		{1, 0.1, 1},
		{3, 1, 3},
		{7, 2, 14},
	}
	for _, tt := range tests {
		doc := parse(t, "STATE_X = { capped_resources = { in = "+strconv.Itoa(tt.total)+" } }")
		New(rules.Set{sumRule("out", tt.scale, "in")}).Apply(doc)
		got, ok := capOf(t, doc, "STATE_X", "out")
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "total %d scale %v", tt.total, tt.scale)
	}
}

func TestOverrideExample(t *testing.T) {
	doc := parse(t, `STATE_E2 = { capped_resources = { building_bauxite_mine = 8 } }`)
	rule := sumRule("building_rare_earths_mine", 1, "building_bauxite_mine")
	rule.Overrides = map[string]int64{"STATE_E2": 30}
	New(rules.Set{rule}).Apply(doc)

	got, ok := capOf(t, doc, "STATE_E2", "building_rare_earths_mine")
	require.True(t, ok)
	assert.Equal(t, int64(38), got)
}

func TestOverrideOnlyEntity(t *testing.T) {
	doc := parse(t, `STATE_A = { capped_resources = { other = 1 } }`)
	rule := sumRule("out", 0.5, "missing")
	rule.Overrides = map[string]int64{"STATE_A": 20}
	New(rules.Set{rule}).Apply(doc)

	got, ok := capOf(t, doc, "STATE_A", "out")
	require.True(t, ok)
	assert.Equal(t, int64(20), got)
}

func TestAlreadyExistsGuard(t *testing.T) {
	doc := parse(t, `
STATE_A = { capped_resources = { in = 10 out = 99 } }
STATE_B = { capped_resources = { in = 10 } }`)
	rep := New(rules.Set{sumRule("out", 1, "in")}).Apply(doc)

	got, _ := capOf(t, doc, "STATE_A", "out")
	assert.Equal(t, int64(99), got, "existing value unchanged")
	got, _ = capOf(t, doc, "STATE_B", "out")
	assert.Equal(t, int64(10), got)

	require.Len(t, rep.Diagnostics, 1)
	d := rep.Diagnostics[0]
	assert.Equal(t, types.DiagRuleConflict, d.Code)
	assert.Equal(t, types.SeverityError, d.Severity)
	assert.Equal(t, "STATE_A", d.Entity)
	assert.Equal(t, "Resource key out already exists in entity STATE_A", d.Message)
}

func TestNonPositiveNotWritten(t *testing.T) {
	doc := parse(t, `
STATE_ZERO = { capped_resources = { in = 0 } }
STATE_NEG = { capped_resources = { in = -6 } }
STATE_PULLED = { capped_resources = { in = 4 } }`)
	rule := sumRule("out", 1, "in")
	rule.Overrides = map[string]int64{"STATE_PULLED": -4}
	rep := New(rules.Set{rule}).Apply(doc)

	for _, id := range []string{"STATE_ZERO", "STATE_NEG", "STATE_PULLED"} {
		_, ok := capOf(t, doc, id, "out")
		assert.False(t, ok, "%s should not get a value", id)
	}
	assert.Equal(t, 0, rep.Derived)
}

func TestMissingAndNonNumericInputs(t *testing.T) {
	doc := parse(t, `STATE_A = { capped_resources = { a = 3 b = "7" c = { 1 } d = yes } }`)
	New(rules.Set{sumRule("out", 1, "a", "b", "c", "d", "nope")}).Apply(doc)
	got, ok := capOf(t, doc, "STATE_A", "out")
	require.True(t, ok)
	assert.Equal(t, int64(3), got)
}

func TestDuplicateInputsCountOnce(t *testing.T) {
	doc := parse(t, `STATE_A = { capped_resources = { a = 3 } }`)
	New(rules.Set{sumRule("out", 1, "a", "a")}).Apply(doc)
	got, _ := capOf(t, doc, "STATE_A", "out")
	assert.Equal(t, int64(3), got)
}

func TestRulesRunInOrder(t *testing.T) {
	doc := parse(t, `STATE_A = { capped_resources = { lead = 10 sulfur = 4 } }`)
	New(rules.Set{
		sumRule("bauxite", 0.5, "lead", "sulfur"),
		sumRule("rare", 0.5, "bauxite"),
	}).Apply(doc)

	got, _ := capOf(t, doc, "STATE_A", "rare")
	assert.Equal(t, int64(4), got, "second rule reads the first rule's output")

	doc = parse(t, `STATE_A = { capped_resources = { lead = 10 sulfur = 4 } }`)
	New(rules.Set{
		sumRule("rare", 0.5, "bauxite"),
		sumRule("bauxite", 0.5, "lead", "sulfur"),
	}).Apply(doc)
	_, ok := capOf(t, doc, "STATE_A", "rare")
	assert.False(t, ok, "rule listed first cannot see a later output")
}

func TestNonEntitiesIgnored(t *testing.T) {
	doc := parse(t, `
REGION_A = { capped_resources = { in = 10 } }
STATE_ARRAY = { capped_resources = { 1 2 3 } }
STATE_SCALAR = 5
STATE_NOCAPS = { id = 1 }
STATE_OK = { capped_resources = { in = 10 } }`)
	rep := New(rules.Set{sumRule("out", 1, "in")}).Apply(doc)
	assert.Equal(t, []string{"STATE_OK"}, rep.Entities)

	region, _ := doc.Get("REGION_A")
	caps, _ := region.Document().Get(CappedResourcesKey)
	assert.False(t, caps.Document().Has("out"))
}

func TestEntityPrefixOption(t *testing.T) {
	doc := parse(t, `REGION_A = { capped_resources = { in = 2 } }`)
	rep := New(rules.Set{sumRule("out", 1, "in")}, WithEntityPrefix("REGION_")).Apply(doc)
	assert.Equal(t, []string{"REGION_A"}, rep.Entities)
	got, _ := capOf(t, doc, "REGION_A", "out")
	assert.Equal(t, int64(2), got)
}

func TestMissingScaleWritesNothing(t *testing.T) {
	doc := parse(t, `
STATE_A = { capped_resources = { building_bauxite_mine = 8 } }
STATE_CALIFORNIA = { capped_resources = { building_bauxite_mine = 8 } }`)
	rule := rules.Rule{
		Produces:  "building_rare_earths_mine",
		Inputs:    []string{"building_bauxite_mine"},
		Overrides: map[string]int64{"STATE_CALIFORNIA": 30},
	}
	rep := New(rules.Set{rule}).Apply(doc)

	for _, id := range []string{"STATE_A", "STATE_CALIFORNIA"} {
		_, ok := capOf(t, doc, id, "building_rare_earths_mine")
		assert.False(t, ok, "%s: rule without scale must not write, even with an override", id)
	}
	require.Len(t, rep.Diagnostics, 1, "one warning per rule, not per entity")
	assert.Equal(t, types.DiagRuleScaleMissing, rep.Diagnostics[0].Code)
	assert.Equal(t, types.SeverityWarning, rep.Diagnostics[0].Severity)
}

func TestMissingScaleStillReportsConflict(t *testing.T) {
	doc := parse(t, `STATE_A = { capped_resources = { out = 1 } }`)
	rep := New(rules.Set{{Produces: "out"}}).Apply(doc)
	var codes []string
	for _, d := range rep.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{types.DiagRuleConflict, types.DiagRuleScaleMissing}, codes)
}

func TestMissingScaleNotReportedWithoutEntities(t *testing.T) {
	doc := parse(t, `something = else`)
	rep := New(rules.Set{{Produces: "out"}}).Apply(doc)
	assert.Empty(t, rep.Diagnostics)
}

func TestIdempotentAcrossRuns(t *testing.T) {
	set := rules.Set{
		sumRule("building_bauxite_mine", 0.5, "building_lead_mine", "building_sulfur_mine"),
		sumRule("building_rare_earths_mine", 0.5, "building_bauxite_mine"),
	}
	set[1].Overrides = map[string]int64{"STATE_B": 3}

	source := `
STATE_A = { capped_resources = { building_lead_mine = 10 building_sulfur_mine = 5 } }
STATE_B = { capped_resources = { building_lead_mine = 3 } }`

	run := func(text string) string {
		stripped, err := reset.Strip(text, set.ProducedKeys())
		require.NoError(t, err)
		doc := parse(t, stripped)
		rep := New(set).Apply(doc)
		assert.Empty(t, rep.Diagnostics)
		return script.Format(doc)
	}

	first := run(source)
	second := run(first)
	assert.Equal(t, first, second)

	doc := parse(t, second)
	got, _ := capOf(t, doc, "STATE_A", "building_bauxite_mine")
	assert.Equal(t, int64(8), got)
	got, _ = capOf(t, doc, "STATE_A", "building_rare_earths_mine")
	assert.Equal(t, int64(4), got)
	got, _ = capOf(t, doc, "STATE_B", "building_rare_earths_mine")
	assert.Equal(t, int64(4), got)
}

func TestWithoutResetSecondRunConflicts(t *testing.T) {
	set := rules.Set{sumRule("out", 1, "in")}
	doc := parse(t, `STATE_A = { capped_resources = { in = 2 } }`)
	New(set).Apply(doc)
	rep := New(set).Apply(parse(t, script.Format(doc)))
	require.Len(t, rep.Diagnostics, 1)
	assert.Equal(t, types.DiagRuleConflict, rep.Diagnostics[0].Code)
}
