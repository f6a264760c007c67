package dbschema

import (
	"time"

	"gorm.io/datatypes"

	"matchpulse/analysis-api/internal/domain/analysis"
	"matchpulse/analysis-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(FootballAnalysis{})
	database.RegisterSchemaForAutoMigrate(BasketballAnalysis{})
}

// FootballAnalysis stores one football analysis result.
type FootballAnalysis struct {
	ID         uint           `gorm:"primaryKey"`
	QueryText  string         `gorm:"type:text;not null"`
	ResultJSON datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"index:idx_football_analyses_created_at"`
}

func (FootballAnalysis) TableName() string {
	return "football_analyses"
}

func (a *FootballAnalysis) EtoD() analysis.Record {
	return analysis.Record{
		ID:         a.ID,
		Sport:      analysis.SportFootball,
		QueryText:  a.QueryText,
		ResultJSON: string(a.ResultJSON),
		CreatedAt:  a.CreatedAt,
	}
}

// BasketballAnalysis stores one basketball analysis result.
type BasketballAnalysis struct {
	ID         uint           `gorm:"primaryKey"`
	QueryText  string         `gorm:"type:text;not null"`
	ResultJSON datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"index:idx_basketball_analyses_created_at"`
}

func (BasketballAnalysis) TableName() string {
	return "basketball_analyses"
}

func (a *BasketballAnalysis) EtoD() analysis.Record {
	return analysis.Record{
		ID:         a.ID,
		Sport:      analysis.SportBasketball,
		QueryText:  a.QueryText,
		ResultJSON: string(a.ResultJSON),
		CreatedAt:  a.CreatedAt,
	}
}
