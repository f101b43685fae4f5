package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/munivilla/portal/internal/models"
	"github.com/munivilla/portal/internal/utils"
)

type TipoRepository interface {
	List(ctx context.Context) ([]models.ConvocatoriaTipo, error)
	GetByID(ctx context.Context, id uint) (*models.ConvocatoriaTipo, error)
	Insert(ctx context.Context, t *models.ConvocatoriaTipo) error
	Update(ctx context.Context, t *models.ConvocatoriaTipo) error
	Delete(ctx context.Context, id uint) error
	CountConvocatorias(ctx context.Context, tipoID uint) (int64, error)
}

type tipoRepo struct {
	db *gorm.DB
}

func NewTipoRepo(db *gorm.DB) TipoRepository {
	return &tipoRepo{db: db}
}

func (r *tipoRepo) List(ctx context.Context) ([]models.ConvocatoriaTipo, error) {
	var tipos []models.ConvocatoriaTipo
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoRepo) GetByID(ctx context.Context, id uint) (*models.ConvocatoriaTipo, error) {
	var t models.ConvocatoriaTipo
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}

func (r *tipoRepo) Insert(ctx context.Context, t *models.ConvocatoriaTipo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoRepo) Update(ctx context.Context, t *models.ConvocatoriaTipo) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ConvocatoriaTipo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// CountConvocatorias backs the application-level referential guard: a tipo
// with associated convocatorias cannot be deleted.
func (r *tipoRepo) CountConvocatorias(ctx context.Context, tipoID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Convocatoria{}).
		Where("tipo_id = ?", tipoID).
		Count(&count).Error
	return count, err
}
