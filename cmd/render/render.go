package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/housepower/cohortcmp/resources"
	"github.com/housepower/cohortcmp/sqlrender"
	"github.com/k0kubun/pp"
	"github.com/pkg/errors"
)

type RenderOpts struct {
	// a file path, or a bundled resource such as /resources/cohortcomparison/sql/attrition.sql
	Template string
	Params   []string
	Dialect  string
	Verbose  bool
}

// Templates are the bundled sql templates by short name.
var Templates = map[string]string{
	"attrition":      resources.AttritionSql,
	"balance":        resources.BalanceSql,
	"psmodeldist":    resources.PsModelAggSql,
	"matchedpopdist": resources.MatchedPopAggSql,
	"auc":            resources.AucSql,
	"psmodel":        resources.PsModelSql,
	"concepts":       resources.ResolveConceptsSql,
}

func loadTemplate(name string) (string, error) {
	if path, ok := Templates[name]; ok {
		return resources.GetResourceAsString(path)
	}
	if strings.HasPrefix(name, "/resources/") {
		return resources.GetResourceAsString(name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	return string(data), nil
}

// ParseParams turns name=value pairs into render parameters.
func ParseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Errorf("parameter %q is not name=value", pair)
		}
		params[strings.TrimPrefix(strings.TrimSpace(k), "@")] = v
	}
	return params, nil
}

func Render(opts RenderOpts) (string, error) {
	text, err := loadTemplate(opts.Template)
	if err != nil {
		return "", err
	}
	params, err := ParseParams(opts.Params)
	if err != nil {
		return "", err
	}
	if opts.Verbose {
		_, _ = pp.Fprintln(os.Stderr, params)
	}
	sql, err := sqlrender.RenderMap(text, params)
	if err != nil {
		return "", err
	}
	return sqlrender.TranslateSQL(sql, sqlrender.DialectSqlServer, opts.Dialect)
}

func RenderHandle(opts RenderOpts) {
	sql, err := Render(opts)
	if err != nil {
		fmt.Printf("render %s failed: %v\n", opts.Template, err)
		os.Exit(1)
	}
	fmt.Println(sql)
}

func DialectsHandle() {
	for _, d := range sqlrender.Dialects() {
		fmt.Println(d)
	}
}
