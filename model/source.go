package model

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	DaimonTypeCDM        string = "CDM"
	DaimonTypeVocabulary string = "Vocabulary"
	DaimonTypeResults    string = "Results"
	DaimonTypeTemp       string = "Temp"
)

// Source is a registered CDM database. SourceConnection is kept in the form
// the remote statistical service expects, usually a JDBC url.
type Source struct {
	SourceId         int            `json:"sourceId"`
	SourceName       string         `json:"sourceName"`
	SourceKey        string         `json:"sourceKey"`
	SourceDialect    string         `json:"sourceDialect"`
	SourceConnection string         `json:"sourceConnection"`
	Daimons          []SourceDaimon `json:"daimons"`
}

type SourceDaimon struct {
	DaimonType     string `json:"daimonType"`
	TableQualifier string `json:"tableQualifier"`
	Priority       int    `json:"priority"`
}

// TableQualifier returns the schema qualifier of the daimon with the highest
// priority for the given type. Vocabulary falls back to CDM.
func (s Source) TableQualifier(daimonType string) (string, error) {
	found := false
	var best SourceDaimon
	for _, d := range s.Daimons {
		if !strings.EqualFold(d.DaimonType, daimonType) {
			continue
		}
		if !found || d.Priority > best.Priority {
			best = d
			found = true
		}
	}
	if found {
		return best.TableQualifier, nil
	}
	if strings.EqualFold(daimonType, DaimonTypeVocabulary) {
		return s.TableQualifier(DaimonTypeCDM)
	}
	return "", errors.Errorf("source %s has no %s daimon", s.SourceKey, daimonType)
}

func (s Source) Validate() error {
	if s.SourceKey == "" {
		return errors.New("sourceKey is required")
	}
	if s.SourceDialect == "" {
		return errors.Errorf("source %s: sourceDialect is required", s.SourceKey)
	}
	if s.SourceConnection == "" {
		return errors.Errorf("source %s: sourceConnection is required", s.SourceKey)
	}
	return nil
}
