package rdbms

import "time"

const (
	TBL_ANALYSIS          string = "tbl_cca_analysis"
	TBL_EXECUTION         string = "tbl_cca_execution"
	TBL_SOURCE            string = "tbl_source"
	TBL_COHORT_DEFINITION string = "tbl_cohort_definition"
	TBL_CONCEPT_SET       string = "tbl_concept_set"
	TBL_JOB               string = "tbl_job"
)

// Every record keeps its model encoded as JSON in Config; the other columns
// only exist to look records up.

type TblAnalysis struct {
	Id     int    `gorm:"primaryKey;autoIncrement;column:id"`
	Name   string `gorm:"column:name;size:255"`
	Config string `gorm:"column:config;size:1024000"`
}

func (v TblAnalysis) TableName() string {
	return TBL_ANALYSIS
}

type TblExecution struct {
	Id         int    `gorm:"primaryKey;autoIncrement;column:id"`
	AnalysisId int    `gorm:"index:idx_analysis;column:analysis_id"`
	Config     string `gorm:"column:config;size:1024000"`
}

func (v TblExecution) TableName() string {
	return TBL_EXECUTION
}

type TblSource struct {
	Id        int    `gorm:"primaryKey;autoIncrement;column:id"`
	SourceKey string `gorm:"index:idx_source_key,unique;column:source_key;size:255"`
	Config    string `gorm:"column:config;size:1024000"`
}

func (v TblSource) TableName() string {
	return TBL_SOURCE
}

type TblCohortDefinition struct {
	Id     int    `gorm:"primaryKey;autoIncrement;column:id"`
	Name   string `gorm:"column:name;size:255"`
	Config string `gorm:"column:config;size:1024000"`
}

func (v TblCohortDefinition) TableName() string {
	return TBL_COHORT_DEFINITION
}

type TblConceptSet struct {
	Id     int    `gorm:"primaryKey;autoIncrement;column:id"`
	Name   string `gorm:"column:name;size:255"`
	Config string `gorm:"column:config;size:1024000"`
}

func (v TblConceptSet) TableName() string {
	return TBL_CONCEPT_SET
}

type TblJob struct {
	JobId      string    `gorm:"primaryKey;column:job_id;size:64"`
	Status     int       `gorm:"index:idx_status;column:status"`
	ServerIp   string    `gorm:"column:server_ip;size:64"`
	CreateTime time.Time `gorm:"column:create_time"`
	Config     string    `gorm:"column:config;size:1024000"`
}

func (v TblJob) TableName() string {
	return TBL_JOB
}

func Tables() []interface{} {
	return []interface{}{
		&TblAnalysis{},
		&TblExecution{},
		&TblSource{},
		&TblCohortDefinition{},
		&TblConceptSet{},
		&TblJob{},
	}
}
