package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ErrDuplicateOrders is returned when a turn has two lines for one participant.
var ErrDuplicateOrders = errors.New("duplicate orders")

var parser = Build()

// Parse reads a whole script. name is used in error positions only.
func Parse(name, src string) (*Script, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	s, err := parser.ParseString(name, src)
	if err != nil {
		return nil, MapError(err)
	}
	seen := map[int]bool{}
	for _, t := range s.Turns {
		if seen[t.Number] {
			return nil, fmt.Errorf("%s: turn %d appears twice", name, t.Number)
		}
		seen[t.Number] = true
	}
	return s, nil
}

// MapError turns a participle error into a message naming the script line
// and the shape the parser expected there.
func MapError(err error) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return err
	}
	pos := perr.Position()
	return fmt.Errorf("%s:%d:%d: %s (expected %s)", pos.Filename, pos.Line, pos.Column, perr.Message(), usage(perr.Message()))
}

func usage(msg string) string {
	switch {
	case strings.Contains(msg, `"match"`):
		return "match <id> [ruleset <name>]"
	case strings.Contains(msg, `"participant"`):
		return `participant <id> "<name>" [team <n>] [gender <g>]`
	case strings.Contains(msg, `"turn"`):
		return "turn <n>"
	}
	return "<id>: left <g> right <g> [cast|target|attack|paralyze|charm|permanent|delay|release|suicide ...]"
}
