package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Problem is a pain point collected from a community source. Founders browse
// the catalog for problems worth building an idea around.
type Problem struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"size:200;not null;uniqueIndex:idx_problems_source_title,priority:2" json:"title"`
	Description   string                      `gorm:"type:text;not null" json:"description"`
	Source        string                      `gorm:"size:32;not null;uniqueIndex:idx_problems_source_title,priority:1" json:"source"`
	SourceURL     string                      `gorm:"type:text;not null;default:''" json:"source_url"`
	Category      string                      `gorm:"size:64;not null;index" json:"category"`
	SeverityScore float64                     `gorm:"type:double precision;not null;default:0" json:"severity_score"`
	MentionCount  int64                       `gorm:"not null;default:1" json:"mention_count"`
	Keywords      datatypes.JSONSlice[string] `json:"keywords"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// MaxSeverity is the top of the 0-10 severity scale.
const MaxSeverity = 10.0

// ProblemCategories is the catalog taxonomy, in display order.
var ProblemCategories = []string{
	"e-commerce",
	"real-estate",
	"healthcare",
	"education",
	"marketing",
	"finance",
	"productivity",
	"developer-tools",
	"customer-support",
	"analytics",
	"general",
}

// ProblemSources are the communities problems are collected from.
var ProblemSources = []string{"reddit", "hackernews", "g2"}

func IsProblemCategory(category string) bool {
	return slices.Contains(ProblemCategories, category)
}

func IsProblemSource(source string) bool {
	return slices.Contains(ProblemSources, source)
}

// TrendScore ranks trending problems: severity weighted by how often it comes up.
func (p *Problem) TrendScore() float64 {
	return p.SeverityScore * float64(p.MentionCount)
}
