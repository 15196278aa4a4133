package model

import "sort"

// Result rows are produced by the remote statistical service and read back
// from the results schema. The gorm column tags drive row mapping.

type AttritionResult struct {
	AttritionOrder      int    `json:"attritionOrder" gorm:"column:attrition_order"`
	Description         string `json:"description" gorm:"column:description"`
	TreatedPersons      int    `json:"treatedPersons" gorm:"column:treated_persons"`
	ComparatorPersons   int    `json:"comparatorPersons" gorm:"column:comparator_persons"`
	TreatedExposures    int    `json:"treatedExposures" gorm:"column:treated_exposures"`
	ComparatorExposures int    `json:"comparatorExposures" gorm:"column:comparator_exposures"`
}

type BalanceResult struct {
	CovariateId           int64   `json:"covariateId" gorm:"column:covariate_id"`
	ConceptId             int64   `json:"conceptId" gorm:"column:concept_id"`
	CovariateName         string  `json:"covariateName" gorm:"column:covariate_name"`
	BeforeMatchingStdDiff float32 `json:"beforeMatchingStdDiff" gorm:"column:before_matching_std_diff"`
	AfterMatchingStdDiff  float32 `json:"afterMatchingStdDiff" gorm:"column:after_matching_std_diff"`
}

// PopDistributionValue holds the treatment and comparator population counts
// at one propensity score.
type PopDistributionValue struct {
	Ps         float32 `json:"ps" gorm:"column:ps"`
	Treatment  int     `json:"treatment" gorm:"column:treatment"`
	Comparator int     `json:"comparator" gorm:"column:comparator"`
}

// StratPopDistributionData is one arm's count at a propensity score; Treatment
// is 1 for the treatment arm and 0 for the comparator arm.
type StratPopDistributionData struct {
	Ps          float32 `gorm:"column:ps"`
	Treatment   int     `gorm:"column:treatment"`
	PersonCount int     `gorm:"column:person_count"`
}

type PropensityScoreModelCovariate struct {
	Id    int64   `json:"id" gorm:"column:id"`
	Name  string  `json:"name" gorm:"column:covariate_name"`
	Value float32 `json:"value" gorm:"column:coefficient"`
}

type AucResult struct {
	Auc float32 `gorm:"column:auc"`
}

type PropensityScoreModelReport struct {
	Auc        float32                         `json:"auc"`
	Covariates []PropensityScoreModelCovariate `json:"covariates"`
}

// MergeMatchedPopDistribution folds per-arm rows into one value per
// propensity score. A repeated (ps, arm) pair keeps the last count seen.
func MergeMatchedPopDistribution(datum []StratPopDistributionData) []PopDistributionValue {
	results := make([]PopDistributionValue, 0, len(datum))
	index := make(map[float32]int)
	for _, data := range datum {
		idx, ok := index[data.Ps]
		if !ok {
			idx = len(results)
			index[data.Ps] = idx
			results = append(results, PopDistributionValue{Ps: data.Ps})
		}
		switch data.Treatment {
		case 0:
			results[idx].Comparator = data.PersonCount
		case 1:
			results[idx].Treatment = data.PersonCount
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Ps < results[j].Ps })
	return results
}
