// Package resources holds the SQL templates shipped with the service.
// Templates are written in the sql server dialect with @name placeholders.
package resources

import (
	"embed"
	"strings"

	"github.com/pkg/errors"
)

const (
	AttritionSql       string = "/resources/cohortcomparison/sql/attrition.sql"
	BalanceSql         string = "/resources/cohortcomparison/sql/balance.sql"
	PsModelAggSql      string = "/resources/cohortcomparison/sql/ps_model_agg.sql"
	MatchedPopAggSql   string = "/resources/cohortcomparison/sql/matched_pop_agg.sql"
	AucSql             string = "/resources/cohortcomparison/sql/auc.sql"
	PsModelSql         string = "/resources/cohortcomparison/sql/psmodel.sql"
	ResolveConceptsSql string = "/resources/vocabulary/sql/resolve_concept_set.sql"
)

//go:embed cohortcomparison/sql/*.sql vocabulary/sql/*.sql
var fs embed.FS

func GetResourceAsString(path string) (string, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(path, "/"), "resources/")
	data, err := fs.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "resource %s", path)
	}
	return string(data), nil
}
