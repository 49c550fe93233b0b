package printer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
	"github.com/Protocol-Lattice/gqlnormalize/parser"
)

const kitchenSink = `query Q($a: [Int!]! = [1, 2] @dir, $b: String) @op(x: "y\n") {
  alias: f(o: {k: null, l: ENUM}, s: """raw "text" """) @skip(if: $b) {
    ...Spread @d
    ... on T { g }
  }
}
{ s }
fragment Spread on T { id }`

func TestPrint(t *testing.T) {
	doc, err := parser.ParseDocument(kitchenSink)
	require.NoError(t, err)

	out, err := PrintString(doc)
	require.NoError(t, err)
	assert.Equal(t, `query Q($a: [Int!]! = [1, 2] @dir, $b: String) @op(x: "y\n") {
  alias: f(o: {k: null, l: ENUM}, s: """raw "text" """) @skip(if: $b) {
    ...Spread @d
    ... on T {
      g
    }
  }
}

{
  s
}

fragment Spread on T {
  id
}
`, out)
}

func TestPrint_Reparse(t *testing.T) {
	doc, err := parser.ParseDocument(kitchenSink)
	require.NoError(t, err)
	first, err := PrintString(doc)
	require.NoError(t, err)

	again, err := parser.ParseDocument(first)
	require.NoError(t, err)
	second, err := PrintString(again)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrintCompact(t *testing.T) {
	doc, err := parser.ParseDocument(kitchenSink)
	require.NoError(t, err)

	compact, err := PrintCompactString(doc)
	require.NoError(t, err)
	assert.Equal(t, `query Q($a:[Int!]!=[1 2]@dir$b:String)@op(x:"y\n"){alias:f(o:{k:null l:ENUM}s:"""raw "text" """)@skip(if:$b){...Spread@d ...on T{g}}}{s}fragment Spread on T{id}`, compact)

	pretty, err := PrintString(doc)
	require.NoError(t, err)
	minified, err := Minify(pretty)
	require.NoError(t, err)
	assert.Equal(t, compact, minified)

	_, err = parser.ParseDocument(compact)
	require.NoError(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrint_WriteError(t *testing.T) {
	doc := &ast.Document{Definitions: []ast.Definition{
		&ast.OperationDefinition{Shorthand: true, SelectionSet: &ast.SelectionSet{
			Selections: []ast.Selection{&ast.Field{Name: "a"}},
		}},
	}}
	err := Print(failingWriter{}, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, doc))
	assert.Equal(t, "{\n  a\n}\n", buf.String())
}

func TestMinify(t *testing.T) {
	run := func(name, input, expected string) {
		t.Run(name, func(t *testing.T) {
			out, err := Minify(input)
			require.NoError(t, err)
			assert.Equal(t, expected, out)
		})
	}

	run("whitespace, commas and comments", "query  Q { a , b }  # comment\n", "query Q{a b}")
	run("spread after a name", "{ a ...F }", "{a ...F}")
	run("negative number after a number", "{ f(l: [1, -2]) }", "{f(l:[1 -2])}")
	run("adjacent strings", `{ f(l: ["", "x"]) }`, `{f(l:["" "x"])}`)
	run("escapes are kept", `{ f(s: "a\"b\u0041") }`, `{f(s:"a\"bA")}`)
	run("block strings are kept verbatim", "{ f(s: \"\"\"  x\n  y \"\"\") }", "{f(s:\"\"\"  x\n  y \"\"\")}")
	run("empty input", "  # only a comment", "")
	run("union and interface separators", "union U = | A | B\ntype T implements I & J { f: [U!] }", "union U=|A|B type T implements I&J{f:[U!]}")

	t.Run("illegal character", func(t *testing.T) {
		_, err := Minify("{ a ^ }")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1:5")
	})
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"a\"b\\"`, Quote(`a"b\`))
	assert.Equal(t, `"\n\t\r\b\f"`, Quote("\n\t\r\b\f"))
	assert.Equal(t, `"\u0001"`, Quote("\x01"))
	assert.Equal(t, `"é"`, Quote("é"))
}
