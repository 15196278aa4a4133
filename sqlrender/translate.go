package sqlrender

import (
	_ "embed"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DialectSqlServer  string = "sql server"
	DialectPdw        string = "pdw"
	DialectPostgreSQL string = "postgresql"
	DialectRedshift   string = "redshift"
	DialectMySQL      string = "mysql"
	DialectOracle     string = "oracle"
)

//go:embed rules.yaml
var rulesYaml []byte

type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type dialectRules struct {
	Dialect string `yaml:"dialect"`
	Extends string `yaml:"extends"`
	Rules   []Rule `yaml:"rules"`
}

var (
	rulesOnce sync.Once
	rulesErr  error
	ruleSet   map[string][]Rule
)

func loadRules() (map[string][]Rule, error) {
	rulesOnce.Do(func() {
		var all []dialectRules
		if err := yaml.Unmarshal(rulesYaml, &all); err != nil {
			rulesErr = errors.Wrap(err, "load dialect rules")
			return
		}
		ruleSet = make(map[string][]Rule)
		for _, d := range all {
			rules := d.Rules
			if d.Extends != "" {
				base, ok := ruleSet[d.Extends]
				if !ok {
					rulesErr = errors.Errorf("dialect %s extends unknown dialect %s", d.Dialect, d.Extends)
					return
				}
				rules = append(append([]Rule{}, rules...), base...)
			}
			ruleSet[d.Dialect] = rules
		}
	})
	return ruleSet, rulesErr
}

// Dialects returns the names of every supported target dialect.
func Dialects() []string {
	rules, err := loadRules()
	if err != nil {
		return nil
	}
	var out []string
	for name := range rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Rules returns the rewrite rules applied for a target dialect, in order.
func Rules(dialect string) ([]Rule, error) {
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}
	r, ok := rules[NormalizeDialect(dialect)]
	if !ok {
		return nil, errors.Errorf("unsupported dialect %q", dialect)
	}
	return r, nil
}

func NormalizeDialect(dialect string) string {
	d := strings.ToLower(strings.TrimSpace(dialect))
	switch d {
	case "sqlserver", "mssql":
		return DialectSqlServer
	case "postgres":
		return DialectPostgreSQL
	}
	return d
}

// TranslateSQL rewrites sql written in the canonical sql server dialect into
// targetDialect. Only sql server is accepted as the source dialect.
func TranslateSQL(sql, sourceDialect, targetDialect string) (string, error) {
	if NormalizeDialect(sourceDialect) != DialectSqlServer {
		return "", errors.Errorf("unsupported source dialect %q", sourceDialect)
	}
	rules, err := Rules(targetDialect)
	if err != nil {
		return "", err
	}
	for _, rule := range rules {
		sql = applyRule(sql, rule)
	}
	return sql, nil
}

type token struct {
	text  string
	start int
	end   int
	space bool
}

func isWordByte(c byte) bool {
	return c == '_' || c == '#' || c == '@' || c == '$' || c >= 0x80 ||
		unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func tokenize(s string) []token {
	var tokens []token
	for i := 0; i < len(s); {
		c := s[i]
		start := i
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
				i++
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i, space: true})
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i, space: true})
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += end + 4
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i, space: true})
		case c == '\'' || c == '"':
			i++
			for i < len(s) {
				if s[i] == c {
					if i+1 < len(s) && s[i+1] == c {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i})
		case isWordByte(c):
			for i < len(s) && isWordByte(s[i]) {
				i++
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i})
		default:
			i++
			if i < len(s) {
				two := s[start : i+1]
				if two == "<>" || two == "<=" || two == ">=" || two == "!=" || two == "::" {
					i++
				}
			}
			tokens = append(tokens, token{text: s[start:i], start: start, end: i})
		}
	}
	return tokens
}

func patternTokens(pattern string) []string {
	var out []string
	for _, t := range tokenize(pattern) {
		if !t.space {
			out = append(out, t.text)
		}
	}
	return out
}

func isVariable(t string) bool {
	return strings.HasPrefix(t, "@@") && len(t) > 2
}

type matcher struct {
	pattern []string
	tokens  []token
	vars    map[string]string
	src     string
}

// match tries to match pattern[pi:] against tokens[ti:] and returns the index
// of the first token after the match.
func (m *matcher) match(pi, ti int) (int, bool) {
	if pi == len(m.pattern) {
		return ti, true
	}
	p := m.pattern[pi]
	if isVariable(p) {
		return m.matchVariable(pi, ti)
	}
	for ti < len(m.tokens) && m.tokens[ti].space {
		ti++
	}
	if ti >= len(m.tokens) || !strings.EqualFold(m.tokens[ti].text, p) {
		return 0, false
	}
	return m.match(pi+1, ti+1)
}

func (m *matcher) matchVariable(pi, ti int) (int, bool) {
	name := m.pattern[pi]
	for ti < len(m.tokens) && m.tokens[ti].space {
		ti++
	}
	if ti >= len(m.tokens) {
		return 0, false
	}
	last := pi == len(m.pattern)-1
	depth := 0
	for end := ti; end < len(m.tokens); end++ {
		t := m.tokens[end].text
		switch t {
		case "(":
			depth++
		case ")":
			depth--
		case ";":
			if depth == 0 {
				if last && end > ti {
					m.capture(name, ti, end-1)
					return end, true
				}
				return 0, false
			}
		}
		if depth < 0 {
			if last && end > ti {
				m.capture(name, ti, end-1)
				return end, true
			}
			return 0, false
		}
		if depth != 0 || m.tokens[end].space || last {
			continue
		}
		saved := m.vars[name]
		m.capture(name, ti, end)
		if next, ok := m.match(pi+1, end+1); ok {
			return next, true
		}
		m.vars[name] = saved
	}
	if last && depth == 0 {
		m.capture(name, ti, len(m.tokens)-1)
		return len(m.tokens), true
	}
	return 0, false
}

func (m *matcher) capture(name string, from, to int) {
	for to > from && m.tokens[to].space {
		to--
	}
	m.vars[name] = m.src[m.tokens[from].start:m.tokens[to].end]
}

func applyRule(sql string, rule Rule) string {
	pattern := patternTokens(rule.Pattern)
	if len(pattern) == 0 {
		return sql
	}
	searchFrom := 0
	for {
		tokens := tokenize(sql)
		replaced := false
		for ti := range tokens {
			if tokens[ti].start < searchFrom || tokens[ti].space {
				continue
			}
			m := &matcher{pattern: pattern, tokens: tokens, vars: map[string]string{}, src: sql}
			end, ok := m.match(0, ti)
			if !ok {
				continue
			}
			stop := len(sql)
			if end < len(tokens) {
				stop = tokens[end].start
			}
			// keep whitespace that followed the match
			for stop > tokens[ti].start && (sql[stop-1] == ' ' || sql[stop-1] == '\n' || sql[stop-1] == '\t' || sql[stop-1] == '\r') {
				stop--
			}
			replacement := expand(rule.Replacement, m.vars)
			sql = sql[:tokens[ti].start] + replacement + sql[stop:]
			searchFrom = tokens[ti].start + len(replacement)
			replaced = true
			break
		}
		if !replaced {
			return sql
		}
	}
}

func expand(replacement string, vars map[string]string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	// longest first so @@ab is not split by @@a
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		replacement = strings.ReplaceAll(replacement, name, vars[name])
	}
	return replacement
}

// SplitSQL splits a script into statements on semicolons outside of quotes
// and comments. Empty statements are dropped.
func SplitSQL(sql string) []string {
	var out []string
	start := 0
	for _, t := range tokenize(sql) {
		if t.text == ";" {
			if s := strings.TrimSpace(sql[start:t.start]); s != "" {
				out = append(out, s)
			}
			start = t.end
		}
	}
	if s := strings.TrimSpace(sql[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
