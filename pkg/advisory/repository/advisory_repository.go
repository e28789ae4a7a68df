package repository

import (
	"errors"

	"agentrix/entities"
)

var ErrNotFound = errors.New("advisory not found")

type AdvisoryRepository interface {
	Create(a *entities.Advisory) error
	Save(a *entities.Advisory) error
	FindByID(id uint) (*entities.Advisory, error)
	ListRecent(limit int) ([]entities.Advisory, error)
	ListByStatus(status string) ([]entities.Advisory, error)
	CountByCrop(status string) (map[string]int64, error)
}
