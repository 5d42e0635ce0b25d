package postgres

import (
	"context"
	"errors"

	settingsDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/settings"
	"github.com/frahmantamala/timesheet-tracker/internal/settings"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.RepositoryAPI {
	return &SettingsRepository{db: db}
}

// Get returns the first settings row; the table holds at most one.
func (r *SettingsRepository) Get(ctx context.Context) (*settingsDatamodel.SMTPSettings, error) {
	var s settingsDatamodel.SMTPSettings
	err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *settingsDatamodel.SMTPSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
