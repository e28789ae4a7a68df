package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"agentrix/entities"
	"agentrix/pkg/advisory/repository"
)

type advisoryRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AdvisoryRepository { return &advisoryRepo{db} }

func (r *advisoryRepo) Create(a *entities.Advisory) error { return r.db.Create(a).Error }

func (r *advisoryRepo) Save(a *entities.Advisory) error { return r.db.Save(a).Error }

func (r *advisoryRepo) FindByID(id uint) (*entities.Advisory, error) {
	var a entities.Advisory
	if err := r.db.First(&a, "advisory_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *advisoryRepo) ListRecent(limit int) ([]entities.Advisory, error) {
	var out []entities.Advisory
	err := r.db.Order("created_at DESC, advisory_id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *advisoryRepo) ListByStatus(status string) ([]entities.Advisory, error) {
	var out []entities.Advisory
	err := r.db.Where("status = ?", status).Order("advisory_id ASC").Find(&out).Error
	return out, err
}

func (r *advisoryRepo) CountByCrop(status string) (map[string]int64, error) {
	var rows []struct {
		Crop  string
		Count int64
	}
	err := r.db.Model(&entities.Advisory{}).
		Select("recommended_crop AS crop, COUNT(*) AS count").
		Where("status = ? AND recommended_crop <> ''", status).
		Group("recommended_crop").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Crop] = row.Count
	}
	return out, nil
}
