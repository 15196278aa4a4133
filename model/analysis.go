package model

import "time"

const (
	ExecutionStatusRunning   string = "RUNNING"
	ExecutionStatusCompleted string = "COMPLETED"
	ExecutionStatusFailed    string = "FAILED"
)

// Analysis is a comparative cohort analysis definition.
type Analysis struct {
	Id           int        `json:"id"`
	Name         string     `json:"name"`
	TreatmentId  int        `json:"treatmentId"`
	ComparatorId int        `json:"comparatorId"`
	OutcomeId    int        `json:"outcomeId"`
	ExclusionId  int        `json:"exclusionId"`
	TimeAtRisk   int        `json:"timeAtRisk"`
	Created      *time.Time `json:"created"`
	Modified     *time.Time `json:"modified"`
	UserId       int        `json:"userId"`
}

// AnalysisInfo is an Analysis with the display names of the cohorts and the
// exclusion concept set it points to.
type AnalysisInfo struct {
	Analysis
	TreatmentCaption  string `json:"treatmentCaption"`
	ComparatorCaption string `json:"comparatorCaption"`
	OutcomeCaption    string `json:"outcomeCaption"`
	ExclusionCaption  string `json:"exclusionCaption"`
}

// Execution is one triggered run of an analysis against a source. The
// analysis parameters are copied at trigger time.
type Execution struct {
	Id              int       `json:"id"`
	AnalysisId      int       `json:"analysisId"`
	TreatmentId     int       `json:"treatmentId"`
	ComparatorId    int       `json:"comparatorId"`
	OutcomeId       int       `json:"outcomeId"`
	ExclusionId     int       `json:"exclusionId"`
	TimeAtRisk      int       `json:"timeAtRisk"`
	SourceKey       string    `json:"sourceKey"`
	Executed        time.Time `json:"executed"`
	Duration        int       `json:"duration"`
	ExecutionStatus string    `json:"executionStatus"`
	UserId          int       `json:"userId"`
	JobId           string    `json:"jobId"`
}

func NewExecution(analysis Analysis, sourceKey string, userId int) Execution {
	return Execution{
		AnalysisId:      analysis.Id,
		TreatmentId:     analysis.TreatmentId,
		ComparatorId:    analysis.ComparatorId,
		OutcomeId:       analysis.OutcomeId,
		ExclusionId:     analysis.ExclusionId,
		TimeAtRisk:      analysis.TimeAtRisk,
		SourceKey:       sourceKey,
		Executed:        time.Now(),
		Duration:        0,
		ExecutionStatus: ExecutionStatusRunning,
		UserId:          userId,
	}
}

type Executions []Execution

func (v Executions) Len() int           { return len(v) }
func (v Executions) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v Executions) Less(i, j int) bool { return v[i].Executed.After(v[j].Executed) }
