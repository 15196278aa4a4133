// Package sqlrender turns parameterized SQL templates into statements for a
// concrete database: named parameters are substituted, conditional blocks are
// resolved, and the canonical sql server syntax is rewritten for the target
// dialect.
package sqlrender

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var defaultRegexp = regexp.MustCompile(`(?i)\{\s*DEFAULT\s+@(\w+)\s*=\s*([^}]*)\}`)

// Render replaces every @name in sql with the value at the same index. Values
// declared with {DEFAULT @name = value} are used when the caller does not
// supply the parameter. Blocks of the form {condition} ? {then} : {else} are
// evaluated after substitution. Unknown parameters are left as they are.
func Render(sql string, names []string, values []string) (string, error) {
	if len(names) != len(values) {
		return "", errors.Errorf("render sql: %d parameter names but %d values", len(names), len(values))
	}

	params := make(map[string]string)
	for _, m := range defaultRegexp.FindAllStringSubmatch(sql, -1) {
		params[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	sql = defaultRegexp.ReplaceAllString(sql, "")
	for i, name := range names {
		params[strings.ToLower(strings.TrimPrefix(name, "@"))] = values[i]
	}

	sql = substitute(sql, params)
	return resolveConditionals(sql)
}

// RenderMap is Render with the parameters given as a map.
func RenderMap(sql string, params map[string]string) (string, error) {
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	return Render(sql, names, values)
}

func substitute(sql string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	// @executionIdList must not be clobbered by @executionId
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(name) + `\b`)
		sql = re.ReplaceAllLiteralString(sql, params[name])
	}
	return sql
}

func resolveConditionals(sql string) (string, error) {
	for i := 0; i < len(sql); i++ {
		if sql[i] != '{' {
			continue
		}
		condEnd := matchBrace(sql, i)
		if condEnd < 0 {
			return "", errors.Errorf("render sql: unbalanced '{' at offset %d", i)
		}
		q := skipSpace(sql, condEnd+1)
		if q >= len(sql) || sql[q] != '?' {
			continue
		}
		thenStart := skipSpace(sql, q+1)
		if thenStart >= len(sql) || sql[thenStart] != '{' {
			return "", errors.Errorf("render sql: expect '{' after '?' at offset %d", q)
		}
		thenEnd := matchBrace(sql, thenStart)
		if thenEnd < 0 {
			return "", errors.Errorf("render sql: unbalanced '{' at offset %d", thenStart)
		}
		end := thenEnd + 1
		elseBody := ""
		c := skipSpace(sql, thenEnd+1)
		if c < len(sql) && sql[c] == ':' {
			elseStart := skipSpace(sql, c+1)
			if elseStart < len(sql) && sql[elseStart] == '{' {
				elseEnd := matchBrace(sql, elseStart)
				if elseEnd < 0 {
					return "", errors.Errorf("render sql: unbalanced '{' at offset %d", elseStart)
				}
				elseBody = sql[elseStart+1 : elseEnd]
				end = elseEnd + 1
			}
		}

		ok, err := EvaluateCondition(sql[i+1 : condEnd])
		if err != nil {
			return "", err
		}
		body := elseBody
		if ok {
			body = sql[thenStart+1 : thenEnd]
		}
		sql = sql[:i] + body + sql[end:]
		// the chosen branch may hold nested blocks
		i--
	}
	return sql, nil
}

func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

// EvaluateCondition evaluates the boolean expressions allowed inside a
// conditional block: literals, ==, !=, IN (...), !, &, | and parentheses.
func EvaluateCondition(expr string) (bool, error) {
	p := &condParser{tokens: tokenizeCondition(expr)}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.tokens) {
		return false, errors.Errorf("render sql: unexpected %q in condition %q", p.tokens[p.pos], expr)
	}
	return v, nil
}

type condParser struct {
	tokens []string
	pos    int
}

func (p *condParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *condParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *condParser) parseOr() (bool, error) {
	v, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.peek() == "|" {
		p.next()
		r, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		v = v || r
	}
	return v, nil
}

func (p *condParser) parseAnd() (bool, error) {
	v, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for p.peek() == "&" {
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		v = v && r
	}
	return v, nil
}

func (p *condParser) parseUnary() (bool, error) {
	switch p.peek() {
	case "!":
		p.next()
		v, err := p.parseUnary()
		return !v, err
	case "(":
		p.next()
		v, err := p.parseOr()
		if err != nil {
			return false, err
		}
		if p.next() != ")" {
			return false, errors.New("render sql: missing ')' in condition")
		}
		return v, nil
	case "":
		return false, errors.New("render sql: empty condition")
	}
	return p.parseComparison()
}

func (p *condParser) parseComparison() (bool, error) {
	left := p.next()
	switch op := p.peek(); {
	case op == "==" || op == "!=":
		p.next()
		right := p.next()
		if right == "" {
			return false, errors.Errorf("render sql: missing operand after %s", op)
		}
		eq := atomEqual(left, right)
		if op == "==" {
			return eq, nil
		}
		return !eq, nil
	case strings.EqualFold(op, "IN"):
		p.next()
		if p.next() != "(" {
			return false, errors.New("render sql: expect '(' after IN")
		}
		found := false
		for {
			t := p.next()
			if t == "" {
				return false, errors.New("render sql: unterminated IN list")
			}
			if t == ")" {
				break
			}
			if t == "," {
				continue
			}
			if atomEqual(left, t) {
				found = true
			}
		}
		return found, nil
	}
	v := unquote(left)
	return strings.EqualFold(v, "true") || v == "1", nil
}

func atomEqual(a, b string) bool {
	a, b = unquote(a), unquote(b)
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a == b
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func tokenizeCondition(expr string) []string {
	var tokens []string
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'' || c == '"':
			j := i + 1
			for j < len(expr) && expr[j] != c {
				j++
			}
			if j < len(expr) {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		case c == '=' || c == '!':
			if i+1 < len(expr) && expr[i+1] == '=' {
				tokens = append(tokens, expr[i:i+2])
				i += 2
			} else if c == '!' {
				tokens = append(tokens, "!")
				i++
			} else {
				tokens = append(tokens, "==")
				i++
			}
		case c == '&' || c == '|':
			tokens = append(tokens, string(c))
			i++
			for i < len(expr) && expr[i] == c {
				i++
			}
		case c == '(' || c == ')' || c == ',':
			tokens = append(tokens, string(c))
			i++
		default:
			j := i
			for j < len(expr) && !strings.ContainsRune(" \t\n\r'\"=!&|(),", rune(expr[j])) {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		}
	}
	return tokens
}
