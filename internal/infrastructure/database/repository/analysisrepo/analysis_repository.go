package analysisrepo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"matchpulse/analysis-api/internal/domain/analysis"
	"matchpulse/analysis-api/internal/infrastructure/database/dbschema"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

// AnalysisRepository implements analysis.Repository over the two per-sport
// tables.
type AnalysisRepository struct {
	db *gorm.DB
}

var _ analysis.Repository = (*AnalysisRepository)(nil)

// New creates a new AnalysisRepository.
func New(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create stores one analysis result in the table matching its sport.
func (r *AnalysisRepository) Create(ctx context.Context, sport analysis.Sport, queryText, resultJSON string) (*analysis.Record, error) {
	if sport == analysis.SportBasketball {
		row := dbschema.BasketballAnalysis{QueryText: queryText, ResultJSON: datatypes.JSON(resultJSON)}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabase, "failed to persist basketball analysis", err)
		}
		record := row.EtoD()
		return &record, nil
	}

	row := dbschema.FootballAnalysis{QueryText: queryText, ResultJSON: datatypes.JSON(resultJSON)}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to persist football analysis", err)
	}
	record := row.EtoD()
	return &record, nil
}

// ListBySport returns the newest records of one sport, capped at limit.
func (r *AnalysisRepository) ListBySport(ctx context.Context, sport analysis.Sport, limit int) ([]analysis.Record, error) {
	if sport == analysis.SportBasketball {
		var rows []dbschema.BasketballAnalysis
		if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabase, "failed to list basketball analyses", err)
		}
		records := make([]analysis.Record, 0, len(rows))
		for i := range rows {
			records = append(records, rows[i].EtoD())
		}
		return records, nil
	}

	var rows []dbschema.FootballAnalysis
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to list football analyses", err)
	}
	records := make([]analysis.Record, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].EtoD())
	}
	return records, nil
}

// FindByID probes the football table first, then basketball. A miss in both
// returns (nil, nil).
func (r *AnalysisRepository) FindByID(ctx context.Context, id uint) (*analysis.Record, error) {
	var football dbschema.FootballAnalysis
	err := r.db.WithContext(ctx).First(&football, id).Error
	if err == nil {
		record := football.EtoD()
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to look up football analysis", err)
	}

	var basketball dbschema.BasketballAnalysis
	err = r.db.WithContext(ctx).First(&basketball, id).Error
	if err == nil {
		record := basketball.EtoD()
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabase, "failed to look up basketball analysis", err)
	}
	return nil, nil
}
