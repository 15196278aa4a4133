// Package cohortcomparison manages comparative cohort analyses: their
// definitions, their executions on the remote statistical service and the
// results those executions leave in a source's results schema.
package cohortcomparison

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/resources"
	"github.com/housepower/cohortcmp/service/prometheus"
	"github.com/housepower/cohortcmp/service/source"
	"github.com/housepower/cohortcmp/sqlrender"
	"github.com/pkg/errors"
)

const (
	FunctionName = "executeComparativeCohortAnalysis"
	JobName      = "executing cohort comparison on "
)

// Launcher submits a job for asynchronous execution.
type Launcher interface {
	Launch(jobName, stepType string, step model.RsbStep) (model.JobExecutionResource, error)
}

// CohortLookup resolves the cohort definitions and concept sets an analysis
// refers to.
type CohortLookup interface {
	GetCohortDefinition(id int) (model.CohortDefinition, error)
	GetConceptSet(id int) (model.ConceptSet, error)
	GetConceptSetExpression(id int) (model.ConceptSetExpression, error)
}

// ConceptResolver expands a concept set expression in the vocabulary of a
// source.
type ConceptResolver interface {
	ResolveConceptSetExpression(ctx context.Context, sourceKey string, expr model.ConceptSetExpression) ([]int64, error)
}

type CohortComparisonService struct {
	sources    *source.SourceService
	cohorts    CohortLookup
	vocabulary ConceptResolver
	launcher   Launcher
}

func NewCohortComparisonService(sources *source.SourceService, cohorts CohortLookup, vocabulary ConceptResolver, launcher Launcher) *CohortComparisonService {
	return &CohortComparisonService{
		sources:    sources,
		cohorts:    cohorts,
		vocabulary: vocabulary,
		launcher:   launcher,
	}
}

func (s *CohortComparisonService) ListAnalyses() ([]model.Analysis, error) {
	analyses, err := repository.Ps.GetAllAnalyses()
	if err != nil {
		return nil, err
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Id < analyses[j].Id })
	return analyses, nil
}

// SaveAnalysis inserts or updates an analysis. Modified is always stamped
// with the current time; Created is kept when given, otherwise it takes the
// stored value on update or the same instant as Modified on insert.
func (s *CohortComparisonService) SaveAnalysis(analysis *model.Analysis) error {
	now := time.Now()
	if analysis.Created == nil && analysis.Id != 0 {
		old, err := repository.Ps.GetAnalysisById(analysis.Id)
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			analysis.Created = old.Created
		}
	}
	if analysis.Created == nil {
		created := now
		analysis.Created = &created
	}
	analysis.Modified = &now
	return repository.Ps.SaveAnalysis(analysis)
}

// GetAnalysisInfo returns an analysis with the names of the cohorts and the
// exclusion concept set. A reference that cannot be resolved leaves its
// caption empty.
func (s *CohortComparisonService) GetAnalysisInfo(id int) (model.AnalysisInfo, error) {
	analysis, err := repository.Ps.GetAnalysisById(id)
	if err != nil {
		return model.AnalysisInfo{}, err
	}
	info := model.AnalysisInfo{Analysis: analysis}
	info.TreatmentCaption = s.cohortCaption(analysis.TreatmentId)
	info.ComparatorCaption = s.cohortCaption(analysis.ComparatorId)
	info.OutcomeCaption = s.cohortCaption(analysis.OutcomeId)
	if analysis.ExclusionId != 0 {
		if set, err := s.cohorts.GetConceptSet(analysis.ExclusionId); err == nil {
			info.ExclusionCaption = set.Name
		} else {
			log.Logger.Warnf("analysis %d: concept set %d: %v", id, analysis.ExclusionId, err)
		}
	}
	return info, nil
}

func (s *CohortComparisonService) cohortCaption(id int) string {
	if id == 0 {
		return ""
	}
	def, err := s.cohorts.GetCohortDefinition(id)
	if err != nil {
		log.Logger.Warnf("cohort definition %d: %v", id, err)
		return ""
	}
	return def.Name
}

// Execute records a RUNNING execution of an analysis on a source and hands
// the computation to the job runner. It returns once the job is queued.
func (s *CohortComparisonService) Execute(ctx context.Context, id int, sourceKey string, userId int) (model.JobExecutionResource, error) {
	src, err := s.sources.GetSource(sourceKey)
	if err != nil {
		return model.JobExecutionResource{}, err
	}
	cdmQualifier, err := src.TableQualifier(model.DaimonTypeCDM)
	if err != nil {
		return model.JobExecutionResource{}, err
	}
	resultsQualifier, err := src.TableQualifier(model.DaimonTypeResults)
	if err != nil {
		return model.JobExecutionResource{}, err
	}
	analysis, err := repository.Ps.GetAnalysisById(id)
	if err != nil {
		return model.JobExecutionResource{}, err
	}

	execution := model.NewExecution(analysis, sourceKey, userId)
	if err = repository.Ps.CreateExecution(&execution); err != nil {
		return model.JobExecutionResource{}, err
	}

	resource, err := s.launch(ctx, &execution, src, cdmQualifier, resultsQualifier)
	if err != nil {
		execution.ExecutionStatus = model.ExecutionStatusFailed
		if uerr := repository.Ps.UpdateExecution(execution); uerr != nil {
			log.Logger.Errorf("mark execution %d failed: %v", execution.Id, uerr)
		}
		return model.JobExecutionResource{}, err
	}
	prometheus.ExecutionsTriggered.WithLabelValues(sourceKey).Inc()
	log.Logger.Infof("analysis %d execution %d on %s launched as job %s", id, execution.Id, sourceKey, resource.ExecutionId)
	return resource, nil
}

func (s *CohortComparisonService) launch(ctx context.Context, execution *model.Execution, src model.Source, cdmQualifier, resultsQualifier string) (model.JobExecutionResource, error) {
	exclusions := make([]int64, 0)
	if execution.ExclusionId != 0 {
		expr, err := s.cohorts.GetConceptSetExpression(execution.ExclusionId)
		if err != nil {
			return model.JobExecutionResource{}, errors.Wrapf(err, "concept set %d", execution.ExclusionId)
		}
		if exclusions, err = s.vocabulary.ResolveConceptSetExpression(ctx, src.SourceKey, expr); err != nil {
			return model.JobExecutionResource{}, err
		}
	}

	parameters := map[string]interface{}{
		"treatment":             execution.TreatmentId,
		"comparator":            execution.ComparatorId,
		"outcome":               execution.OutcomeId,
		"timeAtRisk":            execution.TimeAtRisk,
		"executionId":           execution.Id,
		"exclusions":            exclusions,
		"connectionString":      src.SourceConnection,
		"dbms":                  src.SourceDialect,
		"cdmTableQualifier":     cdmQualifier,
		"resultsTableQualifier": resultsQualifier,
	}
	resource, err := s.launcher.Launch(JobName+execution.SourceKey, model.StepTypeRsb, model.RsbStep{
		FunctionName: FunctionName,
		Parameters:   parameters,
		ExecutionId:  execution.Id,
	})
	if err != nil {
		return model.JobExecutionResource{}, err
	}
	execution.JobId = resource.ExecutionId
	if err = repository.Ps.UpdateExecution(*execution); err != nil {
		log.Logger.Warnf("record job %s on execution %d: %v", resource.ExecutionId, execution.Id, err)
	}
	return resource, nil
}

func (s *CohortComparisonService) GetExecutions(analysisId int) (model.Executions, error) {
	executions, err := repository.Ps.GetExecutionsByAnalysisId(analysisId)
	if err != nil {
		return nil, err
	}
	out := model.Executions(executions)
	sort.Sort(out)
	return out, nil
}

func (s *CohortComparisonService) GetExecution(eid int) (model.Execution, error) {
	return repository.Ps.GetExecutionById(eid)
}

// ResultSql renders a result template for an execution and translates it to
// the dialect of the execution's source.
func (s *CohortComparisonService) ResultSql(eid int, template string) (model.Source, string, error) {
	execution, err := repository.Ps.GetExecutionById(eid)
	if err != nil {
		return model.Source{}, "", err
	}
	src, err := s.sources.GetSource(execution.SourceKey)
	if err != nil {
		return model.Source{}, "", err
	}
	qualifier, err := src.TableQualifier(model.DaimonTypeResults)
	if err != nil {
		return model.Source{}, "", err
	}
	text, err := resources.GetResourceAsString(template)
	if err != nil {
		return model.Source{}, "", err
	}
	sql, err := sqlrender.Render(text,
		[]string{"resultsTableQualifier", "executionId"},
		[]string{qualifier, strconv.Itoa(eid)})
	if err != nil {
		return model.Source{}, "", errors.Wrap(err, template)
	}
	sql, err = sqlrender.TranslateSQL(sql, sqlrender.DialectSqlServer, src.SourceDialect)
	if err != nil {
		return model.Source{}, "", errors.Wrap(err, template)
	}
	return src, sql, nil
}

// queryResult runs a result template for an execution and maps its rows.
func queryResult[T any](ctx context.Context, s *CohortComparisonService, eid int, template, name string) ([]T, error) {
	defer prometheus.ObserveQuery(name, time.Now())
	src, sql, err := s.ResultSql(eid, template)
	if err != nil {
		return nil, err
	}
	db, err := s.sources.DB(src)
	if err != nil {
		return nil, err
	}
	return source.Query[T](ctx, db, sql)
}

func (s *CohortComparisonService) GetAttrition(ctx context.Context, eid int) ([]model.AttritionResult, error) {
	return queryResult[model.AttritionResult](ctx, s, eid, resources.AttritionSql, "attrition")
}

func (s *CohortComparisonService) GetBalance(ctx context.Context, eid int) ([]model.BalanceResult, error) {
	return queryResult[model.BalanceResult](ctx, s, eid, resources.BalanceSql, "balance")
}

func (s *CohortComparisonService) GetPsModelDistribution(ctx context.Context, eid int) ([]model.PopDistributionValue, error) {
	return queryResult[model.PopDistributionValue](ctx, s, eid, resources.PsModelAggSql, "psmodeldist")
}

func (s *CohortComparisonService) GetMatchedPopDistribution(ctx context.Context, eid int) ([]model.PopDistributionValue, error) {
	datum, err := queryResult[model.StratPopDistributionData](ctx, s, eid, resources.MatchedPopAggSql, "matchedpopdist")
	if err != nil {
		return nil, err
	}
	return model.MergeMatchedPopDistribution(datum), nil
}

// GetPropensityScoreModelReport returns the model's auc, 0 when none was
// stored, and its non zero covariates.
func (s *CohortComparisonService) GetPropensityScoreModelReport(ctx context.Context, eid int) (model.PropensityScoreModelReport, error) {
	report := model.PropensityScoreModelReport{Covariates: make([]model.PropensityScoreModelCovariate, 0)}
	aucs, err := queryResult[model.AucResult](ctx, s, eid, resources.AucSql, "auc")
	if err != nil {
		return report, err
	}
	if len(aucs) > 0 {
		report.Auc = aucs[0].Auc
	}
	report.Covariates, err = queryResult[model.PropensityScoreModelCovariate](ctx, s, eid, resources.PsModelSql, "psmodel")
	return report, err
}
