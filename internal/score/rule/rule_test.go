package rule

import (
	"testing"

	"roomrank/internal/facts"
	"roomrank/internal/score"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Init_Success(t *testing.T) {
	env, err := cel.NewEnv(
		cel.Variable("calendar", cel.StringType),
	)
	require.NoError(t, err)

	rule := &Rule{
		Name: "calendar_free",
		When: `calendar == "Free"`,
		Then: 2,
	}

	err = rule.Init(env)
	assert.NoError(t, err)
	assert.NotNil(t, rule.when, "program should be compiled and assigned")
	assert.Nil(t, rule.value)
}

func TestRule_Init_ParseError(t *testing.T) {
	env, err := cel.NewEnv()
	require.NoError(t, err)

	rule := &Rule{
		Name: "broken",
		When: "calendar == ", // invalid syntax
	}

	err = rule.Init(env)
	assert.Error(t, err, "expected parse error for invalid expression")
}

func TestRule_Init_CheckError(t *testing.T) {
	env, err := cel.NewEnv(
		cel.Variable("affinity", cel.DoubleType),
	)
	require.NoError(t, err)

	rule := &Rule{
		Name: "mismatch",
		When: "affinity > 'high'", // type mismatch: comparing double and string
	}

	err = rule.Init(env)
	assert.Error(t, err, "expected check error for type mismatch")
}

func TestRule_Init_WrongResultType(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	err = (&Rule{Name: "not_bool", When: "affinity"}).Init(env)
	assert.Error(t, err, "condition must be boolean")

	err = (&Rule{Name: "not_number", Value: "calendar"}).Init(env)
	assert.Error(t, err, "value must be numeric")
}

func TestRule_Init_NameRequired(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	assert.Error(t, (&Rule{When: "true"}).Init(env))
}

func TestRule_Eval_TrueCondition(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "asset_ok", When: `asset == "OK"`, Then: 1}
	require.NoError(t, rule.Init(env))

	v, applied := rule.Eval(map[string]any{"asset": "OK"})
	assert.True(t, applied)
	assert.Equal(t, 1.0, v)
}

func TestRule_Eval_FalseCondition(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "asset_ok", When: `asset == "OK"`, Then: 1}
	require.NoError(t, rule.Init(env))

	v, applied := rule.Eval(map[string]any{"asset": "Needs Cleaning"})
	assert.False(t, applied)
	assert.Zero(t, v)
}

func TestRule_Eval_UnknownFact(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "within_temperature", When: "temperature <= max_temp", Then: 2}
	require.NoError(t, rule.Init(env))

	// temperature is declared but absent, CEL reports no such attribute
	v, applied := rule.Eval(map[string]any{"max_temp": 23.0})
	assert.False(t, applied)
	assert.Zero(t, v)
}

func TestRule_Eval_ValueExpression(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "learned_affinity", Value: "affinity"}
	require.NoError(t, rule.Init(env))

	v, applied := rule.Eval(map[string]any{"affinity": 4.2})
	assert.True(t, applied)
	assert.Equal(t, 4.2, v)

	v, applied = rule.Eval(map[string]any{})
	assert.False(t, applied)
	assert.Zero(t, v)
}

func TestRule_Eval_IntValueExpression(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "demand_bonus", When: `demand == "Low Demand"`, Value: "1 + 2"}
	require.NoError(t, rule.Init(env))

	v, applied := rule.Eval(map[string]any{"demand": "Low Demand"})
	assert.True(t, applied)
	assert.Equal(t, 3.0, v)
}

func TestRule_Eval_NilFacts(t *testing.T) {
	env, err := facts.NewEnv()
	require.NoError(t, err)

	rule := &Rule{Name: "calendar_free", When: `calendar == "Free"`, Then: 2}
	require.NoError(t, rule.Init(env))

	v, applied := rule.Eval(nil)
	assert.False(t, applied)
	assert.Zero(t, v)
}

func TestParse_DefaultRules(t *testing.T) {
	rules, err := Parse([]byte(DefaultRules), facts.NewEnv)
	require.NoError(t, err)
	require.Len(t, rules, 6)
	assert.Equal(t, "calendar_free", rules[0].Name)
	assert.Equal(t, "affinity", rules[4].Value)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("- when: [[["), facts.NewEnv)
	assert.Error(t, err)

	_, err = Parse([]byte("not: a list"), facts.NewEnv)
	assert.Error(t, err, "should fail to unmarshal into []Rule")
}

func TestParse_EmptyScript(t *testing.T) {
	rules, err := Parse([]byte(""), facts.NewEnv)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/rules.yaml", facts.NewEnv)
	assert.Error(t, err)
}

func TestActivation(t *testing.T) {
	a := Activation(score.AttributeSet{
		"calendar":   score.Label("Free"),
		"affinity":   score.Number(4),
		"need_quiet": score.Fact(true),
	})
	assert.Equal(t, map[string]any{"calendar": "Free", "affinity": 4.0, "need_quiet": true}, a)
}
