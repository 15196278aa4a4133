package vocabulary

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/resources"
	"github.com/housepower/cohortcmp/service/source"
	"github.com/housepower/cohortcmp/sqlrender"
)

type conceptRow struct {
	ConceptId int64 `gorm:"column:concept_id"`
}

type VocabularyService struct {
	sources *source.SourceService
}

func NewVocabularyService(sources *source.SourceService) *VocabularyService {
	return &VocabularyService{sources: sources}
}

// ResolveConceptSetExpression expands an expression into the concept ids it
// stands for in the vocabulary of a source. An expression without included
// concepts resolves to an empty list without touching the database.
func (s *VocabularyService) ResolveConceptSetExpression(ctx context.Context, sourceKey string, expr model.ConceptSetExpression) ([]int64, error) {
	src, err := s.sources.GetSource(sourceKey)
	if err != nil {
		return nil, err
	}
	qualifier, err := src.TableQualifier(model.DaimonTypeVocabulary)
	if err != nil {
		return nil, err
	}
	sql, ok, err := BuildResolveSql(expr, qualifier, src.SourceDialect)
	if err != nil || !ok {
		return []int64{}, err
	}
	db, err := s.sources.DB(src)
	if err != nil {
		return nil, err
	}
	rows, err := source.Query[conceptRow](ctx, db, sql)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ConceptId)
	}
	ids = common.ArrayDistinct(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	log.Logger.Debugf("resolved %d concepts from %d items on %s", len(ids), len(expr.Items), sourceKey)
	return ids, nil
}

// BuildResolveSql renders the concept set resolution query for a dialect.
// ok is false when the expression includes nothing.
func BuildResolveSql(expr model.ConceptSetExpression, vocabularyQualifier, dialect string) (sql string, ok bool, err error) {
	var included, includedDescendants, includedMapped, excluded, excludedDescendants []string
	for _, item := range expr.Items {
		id := strconv.FormatInt(item.ConceptId, 10)
		if item.IsExcluded {
			excluded = append(excluded, id)
			if item.IncludeDescendants {
				excludedDescendants = append(excludedDescendants, id)
			}
			continue
		}
		included = append(included, id)
		if item.IncludeDescendants {
			includedDescendants = append(includedDescendants, id)
		}
		if item.IncludeMapped {
			includedMapped = append(includedMapped, id)
		}
	}
	if len(included) == 0 {
		return "", false, nil
	}

	template, err := resources.GetResourceAsString(resources.ResolveConceptsSql)
	if err != nil {
		return "", false, err
	}
	sql, err = sqlrender.RenderMap(template, map[string]string{
		"vocabularyTableQualifier": vocabularyQualifier,
		"includedConcepts":         strings.Join(included, ","),
		"includedDescendants":      strings.Join(includedDescendants, ","),
		"includedMapped":           strings.Join(includedMapped, ","),
		"excludedConcepts":         strings.Join(excluded, ","),
		"excludedDescendants":      strings.Join(excludedDescendants, ","),
		"hasIncludedDescendants":   flag(len(includedDescendants) > 0),
		"hasIncludedMapped":        flag(len(includedMapped) > 0),
		"hasExcluded":              flag(len(excluded) > 0),
		"hasExcludedDescendants":   flag(len(excludedDescendants) > 0),
	})
	if err != nil {
		return "", false, err
	}
	sql, err = sqlrender.TranslateSQL(sql, sqlrender.DialectSqlServer, dialect)
	if err != nil {
		return "", false, err
	}
	return sql, true, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
