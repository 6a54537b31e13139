package lexer

import (
	"testing"

	"github.com/dr8co/aslc/token"
)

// TestNextToken tests the functionality of the NextToken method in the Lexer to ensure all tokens are correctly identified.
func TestNextToken(t *testing.T) {
	input := `func f (p: int): int
vars
  x: int
  a: array[10] of int
begin
  x = 1;
  if x < 0 then
    write "neg";
  else
    write "pos";
  endif
  while x < 10 do
    x = x + 1;
  endwhile
  return x;
end
endfunc
`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.FUNC, "func"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "p"},
		{token.COLON, ":"},
		{token.INT, "int"},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.INT, "int"},
		{token.VARS, "vars"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.INT, "int"},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.ARRAY, "array"},
		{token.LBRACKET, "["},
		{token.INTVAL, "10"},
		{token.RBRACKET, "]"},
		{token.OF, "of"},
		{token.INT, "int"},
		{token.BEGIN, "begin"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INTVAL, "1"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.SLT, "<"},
		{token.INTVAL, "0"},
		{token.THEN, "then"},
		{token.WRITE, "write"},
		{token.STRING, `"neg"`},
		{token.SEMICOLON, ";"},
		{token.ELSE, "else"},
		{token.WRITE, "write"},
		{token.STRING, `"pos"`},
		{token.SEMICOLON, ";"},
		{token.ENDIF, "endif"},
		{token.WHILE, "while"},
		{token.IDENT, "x"},
		{token.SLT, "<"},
		{token.INTVAL, "10"},
		{token.DO, "do"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.INTVAL, "1"},
		{token.SEMICOLON, ";"},
		{token.ENDWHILE, "endwhile"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.END, "end"},
		{token.ENDFUNC, "endfunc"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	input := `3 3.14 0 0.5`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.INTVAL, "3"},
		{token.FLOATVAL, "3.14"},
		{token.INTVAL, "0"},
		{token.FLOATVAL, "0.5"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d]: expected %q %q, got %q %q", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestCharLiteral(t *testing.T) {
	l := New(`'a' '\n'`)
	tok := l.NextToken()
	if tok.Type != token.CHARVAL || tok.Literal != "a" {
		t.Fatalf("expected CHARVAL 'a', got %q %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.CHARVAL || tok.Literal != `\n` {
		t.Fatalf("expected CHARVAL \\n, got %q %q", tok.Type, tok.Literal)
	}
}

// TestStringLiteralRawEscapes asserts that the lexer hands raw backslash
// sequences (including the surrounding quotes) to the STRING token's
// literal, unescaped — the write-string codegen rule is responsible for
// interpreting them.
func TestStringLiteralRawEscapes(t *testing.T) {
	l := New(`"hello\nworld" "a\tb" "q\"uote" "back\\slash"`)
	tests := []string{`"hello\nworld"`, `"a\tb"`, `"q\"uote"`, `"back\\slash"`}
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != token.STRING || tok.Literal != want {
			t.Fatalf("tests[%d]: expected STRING %q, got %q %q", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no end`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL token for unterminated string, got %q", tok.Type)
	}
}

func TestComments(t *testing.T) {
	input := "x = 1; // a comment\n// full line\ny = 2;"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INTVAL, "1"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "y"},
		{token.ASSIGN, "="},
		{token.INTVAL, "2"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d]: expected %q %q, got %q %q", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestRelationalAndLogicalOperators(t *testing.T) {
	input := `<= < > >= == != and or not`
	tests := []token.Type{
		token.SLE, token.SLT, token.SGT, token.SGE,
		token.SEQ, token.SNEQ, token.AND, token.OR, token.NOT, token.EOF,
	}
	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d]: expected %q, got %q", i, want, tok.Type)
		}
	}
}
