package parser

import "testing"

// TestParseGolden compares a parsed file's printed form against a stored
// golden file, catching any unintended change to the surface AST's
// String() rendering (and, transitively, to the grammar it reflects).
func TestParseGolden(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic_precedence", "export let r = 1 + 2 * 3 - 4 / 2"},
		{"let_in_lambda", "let add = (x, y) => x + y"},
		{"match_expr", "let describe = (x) => match x { | Some(n) => n | None => 0 }"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			file, diags := parseFileDiags(t, c.src)
			if diags.HasErrors() {
				t.Fatalf("unexpected parse errors for %q: %v", c.src, diags.Errors())
			}
			goldenCompare(t, c.name, file.String())
		})
	}
}
