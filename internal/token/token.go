// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	// single-char punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	LeftSquare
	RightSquare
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Star
	Percent
	Question
	Colon

	// one/two-char operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Slash

	// literals
	Identifier
	String
	Integer
	Float

	// keywords
	And
	Or
	Else
	False
	For
	If
	Nil
	Print
	Println
	Return
	Self
	True
	Let
	While
	Decenv
	Env
	Switch
	Func
	Import

	// sentinels
	Error
	EOF
	Newline
)

var kindNames = map[Kind]string{
	LeftParen: "LEFT_PAREN", RightParen: "RIGHT_PAREN",
	LeftBrace: "LEFT_BRACE", RightBrace: "RIGHT_BRACE",
	LeftSquare: "LEFT_SQUARE", RightSquare: "RIGHT_SQUARE",
	Comma: "COMMA", Dot: "DOT", Minus: "MINUS", Plus: "PLUS",
	Semicolon: "SEMICOLON", Star: "STAR", Percent: "PERCENT",
	Question: "QUESTION", Colon: "COLON",
	Bang: "BANG", BangEqual: "BANG_EQUAL", Equal: "EQUAL", EqualEqual: "EQUAL_EQUAL",
	Greater: "GREATER", GreaterEqual: "GREATER_EQUAL", Less: "LESS", LessEqual: "LESS_EQUAL",
	Slash: "SLASH",
	Identifier: "IDENTIFIER", String: "STRING", Integer: "INTEGER", Float: "FLOAT",
	And: "AND", Or: "OR", Else: "ELSE", False: "FALSE", For: "FOR", If: "IF",
	Nil: "NIL", Print: "PRINT", Println: "PRINTLN", Return: "RETURN", Self: "SELF",
	True: "TRUE", Let: "LET", While: "WHILE", Decenv: "DECENV", Env: "ENV",
	Switch: "SWITCH", Func: "FUNC", Import: "IMPORT",
	Error: "ERROR", EOF: "EOF", Newline: "NEWLINE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifier lexemes to their keyword Kind.
var Keywords = map[string]Kind{
	"and": And, "or": Or, "else": Else, "false": False, "for": For, "if": If,
	"null": Nil, "print": Print, "println": Println, "return": Return,
	"self": Self, "true": True, "let": Let, "while": While, "decenv": Decenv,
	"env": Env, "switch": Switch, "func": Func, "import": Import,
}

// Literal carries the optional literal payload of a token: an integer,
// a float, or a string. At most one of HasInt/HasFloat/HasStr is set.
type Literal struct {
	Int     int64
	Float   float32
	Str     string
	HasInt  bool
	HasFloat bool
	HasStr  bool
}

// IntLiteral builds an integer Literal.
func IntLiteral(v int64) Literal { return Literal{Int: v, HasInt: true} }

// FloatLiteral builds a float Literal.
func FloatLiteral(v float32) Literal { return Literal{Float: v, HasFloat: true} }

// StringLiteral builds a string Literal.
func StringLiteral(v string) Literal { return Literal{Str: v, HasStr: true} }

// Token is one lexical unit: its kind, the source text it was scanned
// from, the line it appeared on, and its optional literal payload.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Literal Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q L%d", t.Kind, t.Lexeme, t.Line)
}

// New constructs a Token with no literal payload.
func New(kind Kind, lexeme string, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line}
}
