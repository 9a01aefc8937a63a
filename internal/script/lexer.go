package script

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits scripts into tokens. Line ends are significant; blanks and
// comments are elided.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Gesture", Pattern: `[FPSWDC]\b|[>\-]`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-z_][a-z0-9_]*`},
	{Name: "Punct", Pattern: `:`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

// Build creates the script parser from the struct tags in ast.go.
func Build() *participle.Parser[Script] {
	return participle.MustBuild[Script](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)
}
