package rule

import (
	"errors"
	"fmt"

	"roomrank/internal/score"

	"github.com/google/cel-go/cel"
)

// Rule represents an additive scoring rule over room facts.
// The When field contains a CEL condition; an empty condition always holds.
// When the condition holds the rule adds Then, or the result of the Value
// expression if one is set. CEL programs are compiled when Init is called.
type Rule struct {
	// Name — rule identifier shown in score breakdowns.
	Name string `yaml:"name"`
	// When — CEL expression defining the trigger condition.
	// Must return a boolean value.
	When string `yaml:"when"`
	// Then — constant increment added when the condition holds.
	Then float64 `yaml:"then"`
	// Value — optional CEL expression computing the increment; overrides Then.
	// Must return a number.
	Value string `yaml:"value"`

	// when, value — compiled CEL programs.
	when  cel.Program
	value cel.Program
}

// Init compiles the When and Value expressions into executable CEL programs
// using the provided env environment.
// In case of syntax, semantic or result type errors, returns the corresponding error.
// After successful initialization, the rule is ready for use in Eval.
func (r *Rule) Init(env *cel.Env) error {
	if r.Name == "" {
		return errors.New("rule: name must be specified")
	}

	if r.When != "" {
		program, err := compile(env, r.When, cel.BoolType)
		if err != nil {
			return fmt.Errorf("rule %q when: %w", r.Name, err)
		}
		r.when = program
	}

	if r.Value != "" {
		program, err := compile(env, r.Value, cel.DoubleType, cel.IntType)
		if err != nil {
			return fmt.Errorf("rule %q value: %w", r.Name, err)
		}
		r.value = program
	}

	return nil
}

func compile(env *cel.Env, expr string, want ...*cel.Type) (cel.Program, error) {
	ast, iss := env.Parse(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	out := checked.OutputType()
	typed := false
	for _, w := range want {
		if out.IsExactType(w) {
			typed = true
			break
		}
	}
	if !typed {
		return nil, fmt.Errorf("expression %q returns %s", expr, out)
	}

	return env.Program(checked)
}

// Eval executes the compiled rule on the provided facts.
// Returns the increment and true if the rule applied.
//
// Important: evaluation errors are not returned. A fact missing from the set
// makes CEL fail with "no such attribute"; the rule then contributes nothing,
// so unknown facts never interrupt the evaluation chain.
func (r *Rule) Eval(facts map[string]any) (float64, bool) {
	if r.when != nil {
		result, _, err := r.when.Eval(facts)
		if err != nil || result.Value() != true {
			return 0, false
		}
	}

	if r.value == nil {
		return r.Then, true
	}

	result, _, err := r.value.Eval(facts)
	if err != nil {
		return 0, false
	}
	switch v := result.Value().(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Activation converts an attribute set to CEL input: labels become strings,
// numbers doubles and facts booleans.
func Activation(attrs score.AttributeSet) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch v.Kind {
		case score.KindLabel:
			out[k] = v.Label
		case score.KindNumber:
			out[k] = v.Number
		case score.KindFact:
			out[k] = v.Fact
		}
	}
	return out
}
