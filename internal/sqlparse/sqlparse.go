// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlparse derives table-level lineage from SQL text. It is a
// token scanner, not a full parser: it recognizes the clauses that
// reference tables (FROM, JOIN, INSERT INTO, MERGE INTO, UPDATE, DELETE
// FROM, CREATE TABLE) and ignores everything else. Names defined by WITH
// are tracked so CTEs are not reported as inputs.
package sqlparse

import (
	"fmt"
	"strings"
	"unicode"
)

// Tables holds the table names a statement reads and writes, in order of
// first appearance, deduplicated.
type Tables struct {
	Inputs  []string
	Outputs []string
}

// IsEmpty reports whether no table references were found.
func (t Tables) IsEmpty() bool {
	return len(t.Inputs) == 0 && len(t.Outputs) == 0
}

type token struct {
	text  string // original spelling, quotes stripped
	upper string // uppercase for keyword comparison; "" for punctuation
	punct byte   // '(' ')' ',' ';' or 0
}

// Parse scans sqlText and returns the referenced tables. Unknown
// constructs are skipped silently; only unusable input (empty after
// comment stripping) is an error.
func Parse(sqlText string) (Tables, error) {
	tokens := tokenize(sqlText)
	if len(tokens) == 0 {
		return Tables{}, fmt.Errorf("no SQL statement found")
	}

	ctes := cteNames(tokens)

	var (
		tables   Tables
		seenIn   = map[string]bool{}
		seenOut  = map[string]bool{}
		addInput = func(name string) {
			if name == "" || ctes[name] || seenIn[name] {
				return
			}
			seenIn[name] = true
			tables.Inputs = append(tables.Inputs, name)
		}
		addOutput = func(name string) {
			if name == "" || ctes[name] || seenOut[name] {
				return
			}
			seenOut[name] = true
			tables.Outputs = append(tables.Outputs, name)
		}
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.upper {
		case "FROM":
			if prevKeyword(tokens, i) == "DELETE" {
				addOutput(identAt(tokens, i+1))
				continue
			}
			// FROM a, b — a comma-separated table list.
			for j := i + 1; j < len(tokens); {
				name := identAt(tokens, j)
				if name == "" {
					break
				}
				addInput(name)
				j++
				// An alias may sit between the table and the comma.
				if j < len(tokens) && tokens[j].punct == 0 && !isClauseKeyword(tokens[j].upper) {
					j++
				}
				if j >= len(tokens) || tokens[j].punct != ',' {
					break
				}
				j++
			}
		case "JOIN":
			addInput(identAt(tokens, i+1))
		case "USING":
			// MERGE INTO t USING s; in JOIN ... USING (col) the next token
			// is a parenthesis, which identAt rejects.
			addInput(identAt(tokens, i+1))
		case "INTO":
			switch prevKeyword(tokens, i) {
			case "INSERT", "MERGE", "REPLACE":
				addOutput(identAt(tokens, i+1))
			}
		case "UPDATE":
			// Skip row locks (SELECT ... FOR UPDATE).
			if prevKeyword(tokens, i) != "FOR" {
				addOutput(identAt(tokens, i+1))
			}
		case "TABLE":
			prev := prevKeyword(tokens, i)
			if prev != "CREATE" && !(isTempKeyword(prev) && prevKeyword(tokens, i-1) == "CREATE") {
				continue
			}
			j := i + 1
			// CREATE TABLE IF NOT EXISTS x
			if j+2 < len(tokens) && tokens[j].upper == "IF" && tokens[j+1].upper == "NOT" && tokens[j+2].upper == "EXISTS" {
				j += 3
			}
			addOutput(identAt(tokens, j))
		}
	}

	return tables, nil
}

// clause keywords that terminate a FROM table list.
func isClauseKeyword(upper string) bool {
	switch upper {
	case "WHERE", "GROUP", "ORDER", "HAVING", "LIMIT", "UNION", "JOIN",
		"INNER", "LEFT", "RIGHT", "FULL", "CROSS", "ON", "SET", "AS",
		"USING", "WINDOW", "SELECT", "":
		return true
	}
	return false
}

func isTempKeyword(upper string) bool {
	return upper == "TEMP" || upper == "TEMPORARY"
}

// identAt returns the dotted identifier starting at index i, or "" when the
// token there is punctuation or a keyword-looking bare word followed by
// nothing usable. A "(" means a subquery, never a table.
func identAt(tokens []token, i int) string {
	if i >= len(tokens) || tokens[i].punct != 0 {
		return ""
	}
	if isClauseKeyword(tokens[i].upper) {
		return ""
	}
	return tokens[i].text
}

// prevKeyword returns the uppercase form of the token before index i,
// skipping nothing; punctuation yields "".
func prevKeyword(tokens []token, i int) string {
	if i <= 0 {
		return ""
	}
	return tokens[i-1].upper
}

// cteNames collects the names introduced by WITH clauses so they are not
// misreported as physical inputs.
func cteNames(tokens []token) map[string]bool {
	names := map[string]bool{}
	for i := 0; i < len(tokens); i++ {
		if tokens[i].upper != "WITH" {
			continue
		}
		j := i + 1
		if j < len(tokens) && tokens[j].upper == "RECURSIVE" {
			j++
		}
		for j < len(tokens) {
			name := identAt(tokens, j)
			if name == "" {
				break
			}
			names[name] = true
			j++
			// Optional column list, then AS ( ... ).
			j = skipParens(tokens, j)
			if j < len(tokens) && tokens[j].upper == "AS" {
				j++
			}
			j = skipParens(tokens, j)
			if j >= len(tokens) || tokens[j].punct != ',' {
				break
			}
			j++
		}
	}
	return names
}

// skipParens advances past one balanced parenthesized group starting at i,
// or returns i unchanged when there is none.
func skipParens(tokens []token, i int) int {
	if i >= len(tokens) || tokens[i].punct != '(' {
		return i
	}
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].punct {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// tokenize splits SQL into identifier and punctuation tokens, dropping
// comments and string literals.
func tokenize(sqlText string) []token {
	var tokens []token
	s := sqlText
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i += 2
		case c == '\'':
			i++
			for i < len(s) && s[i] != '\'' {
				i++
			}
			i++
		case c == '(' || c == ')' || c == ',' || c == ';':
			tokens = append(tokens, token{punct: c})
			i++
		case c == '"' || c == '`':
			// Quoted identifier; may be the first part of a dotted name.
			quote := c
			i++
			start := i
			for i < len(s) && s[i] != quote {
				i++
			}
			word := s[start:i]
			i++
			word += readDottedTail(s, &i)
			tokens = append(tokens, token{text: word, upper: strings.ToUpper(word)})
		case isIdentRune(rune(c)):
			start := i
			for i < len(s) && (isIdentRune(rune(s[i])) || s[i] == '.') {
				i++
			}
			word := s[start:i]
			tokens = append(tokens, token{text: word, upper: strings.ToUpper(word)})
		default:
			i++
		}
	}
	return tokens
}

// readDottedTail consumes ".rest" following a quoted identifier.
func readDottedTail(s string, i *int) string {
	var tail strings.Builder
	for *i < len(s) && s[*i] == '.' {
		tail.WriteByte('.')
		*i++
		for *i < len(s) && (isIdentRune(rune(s[*i])) || s[*i] == '"' || s[*i] == '`') {
			if s[*i] != '"' && s[*i] != '`' {
				tail.WriteByte(s[*i])
			}
			*i++
		}
	}
	return tail.String()
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}
