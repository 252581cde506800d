package cxx

import (
	"strings"
	"unicode"
)

// Tokens is an expression kept as its lexical tokens, used where the
// front-end does not resolve the expression (array sizes, enumerator values,
// template value arguments, default arguments).
type Tokens []string

// punctuators longest-first so that greedy matching works.
var punctuators = []string{
	"<<=", ">>=", "...", "->*",
	"::", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->", ".*",
}

// Tokenize splits C++ expression text into tokens. String and character
// literals are kept whole; whitespace is dropped.
func Tokenize(s string) Tokens {
	var out Tokens
	r := []rune(s)
	for i := 0; i < len(r); {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(r) && isIdentPart(r[j]) {
				j++
			}
			out = append(out, string(r[i:j]))
			i = j
		case unicode.IsDigit(c) || (c == '.' && i+1 < len(r) && unicode.IsDigit(r[i+1])):
			j := i + 1
			for j < len(r) && (isIdentPart(r[j]) || r[j] == '.' || r[j] == '\'' ||
				((r[j] == '+' || r[j] == '-') && (r[j-1] == 'e' || r[j-1] == 'E' || r[j-1] == 'p' || r[j-1] == 'P'))) {
				j++
			}
			out = append(out, string(r[i:j]))
			i = j
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(r) && r[j] != c {
				if r[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(r) {
				j++
			}
			if j > len(r) {
				j = len(r)
			}
			out = append(out, string(r[i:j]))
			i = j
		default:
			tok := string(c)
			for _, p := range punctuators {
				if strings.HasPrefix(string(r[i:]), p) {
					tok = p
					break
				}
			}
			out = append(out, tok)
			i += len([]rune(tok))
		}
	}
	return out
}

func isIdentStart(c rune) bool { return c == '_' || unicode.IsLetter(c) }
func isIdentPart(c rune) bool  { return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) }

// Text renders the tokens compactly, inserting a space only between two
// adjacent word-like tokens.
func (t Tokens) Text() string {
	var b strings.Builder
	for i, tok := range t {
		if i > 0 && wordy(t[i-1]) && wordy(tok) {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

// Spaced joins the tokens with single spaces.
func (t Tokens) Spaced() string { return strings.Join(t, " ") }

func wordy(tok string) bool {
	if tok == "" {
		return false
	}
	c := []rune(tok)[0]
	return isIdentPart(c) || c == '"' || c == '\''
}

var fundamentalWords = map[string]bool{
	"void": true, "bool": true, "char": true, "wchar_t": true, "char8_t": true,
	"char16_t": true, "char32_t": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
}

// IsFundamental reports whether name spells a builtin type, e.g. "int" or
// "unsigned long long".
func IsFundamental(name string) bool {
	words := strings.Fields(name)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !fundamentalWords[w] {
			return false
		}
	}
	return true
}
