package ruleset

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Formula is a compiled CEL expression evaluated against a monster and the
// current turn, e.g. "monster.max_hp" or "turn > 10 ? 2 : 1".
type Formula struct {
	source string
	prg    cel.Program
}

var formulaEnv *cel.Env

func init() {
	env, err := cel.NewEnv(
		ext.Strings(),
		cel.Variable("monster", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("turn", cel.IntType),
		cel.Function("clamp",
			cel.Overload("clamp_int_int_int",
				[]*cel.Type{cel.IntType, cel.IntType, cel.IntType},
				cel.IntType,
				cel.FunctionBinding(func(args ...ref.Val) ref.Val {
					v := args[0].Value().(int64)
					lo := args[1].Value().(int64)
					hi := args[2].Value().(int64)
					if v < lo {
						v = lo
					}
					if v > hi {
						v = hi
					}
					return types.Int(v)
				}),
			),
		),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create CEL environment: %v", err))
	}
	formulaEnv = env
}

// CompileFormula parses and checks a formula once so it can be evaluated
// every turn without recompiling.
func CompileFormula(src string) (*Formula, error) {
	ast, issues := formulaEnv.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error in %q: %w", src, issues.Err())
	}
	prg, err := formulaEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error in %q: %w", src, err)
	}
	return &Formula{source: src, prg: prg}, nil
}

// String returns the formula source.
func (f *Formula) String() string { return f.source }

// Int evaluates the formula and coerces the result to an int.
func (f *Formula) Int(vars map[string]any) (int, error) {
	ctx := map[string]any{
		"monster": map[string]any{},
		"turn":    int64(0),
	}
	for k, v := range vars {
		if n, ok := v.(int); ok {
			v = int64(n)
		}
		ctx[k] = v
	}
	out, _, err := f.prg.Eval(ctx)
	if err != nil {
		return 0, fmt.Errorf("CEL eval error in %q: %w", f.source, err)
	}
	switch v := out.Value().(type) {
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("formula %q returned %T, want int", f.source, out.Value())
}

// MonsterVars builds the evaluation context for a monster's damage formula.
func MonsterVars(typ string, hp, maxHP, turn int) map[string]any {
	return map[string]any{
		"monster": map[string]any{
			"type":   typ,
			"hp":     int64(hp),
			"max_hp": int64(maxHP),
		},
		"turn": turn,
	}
}
