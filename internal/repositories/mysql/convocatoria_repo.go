package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/munivilla/portal/internal/models"
	"github.com/munivilla/portal/internal/utils"
)

// ConvocatoriaFilter narrows the public listing. Nil pointers mean "not
// filtered"; callers default Activa to true before reaching the repository.
type ConvocatoriaFilter struct {
	TipoID *uint
	Estado *models.ConvocatoriaEstado
	Activa *bool
	Page   int
	Limit  int
}

// ConvocatoriaConTipo is a listing row with the owning tipo's nombre joined
// in, matching the public list response shape.
type ConvocatoriaConTipo struct {
	models.Convocatoria `gorm:"embedded"`
	TipoNombre          string `gorm:"column:tipo_nombre" json:"tipo_nombre"`
}

type ConvocatoriaRepository interface {
	List(ctx context.Context, f ConvocatoriaFilter) ([]ConvocatoriaConTipo, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Convocatoria, error)
	Insert(ctx context.Context, c *models.Convocatoria) error
	Update(ctx context.Context, c *models.Convocatoria) error
	DeleteWithArchivos(ctx context.Context, id uint) error
}

type convocatoriaRepo struct {
	db *gorm.DB
}

func NewConvocatoriaRepo(db *gorm.DB) ConvocatoriaRepository {
	return &convocatoriaRepo{db: db}
}

func (r *convocatoriaRepo) List(ctx context.Context, f ConvocatoriaFilter) ([]ConvocatoriaConTipo, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Convocatoria{}).
		Joins("JOIN convocatoria_tipos ON convocatoria_tipos.id = convocatorias.tipo_id")

	if f.TipoID != nil {
		q = q.Where("convocatorias.tipo_id = ?", *f.TipoID)
	}
	if f.Estado != nil {
		q = q.Where("convocatorias.estado = ?", *f.Estado)
	}
	if f.Activa != nil {
		q = q.Where("convocatorias.activa = ?", *f.Activa)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ConvocatoriaConTipo
	err := q.Select("convocatorias.*, convocatoria_tipos.nombre AS tipo_nombre").
		Order("convocatorias.fecha_inicio DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func (r *convocatoriaRepo) GetByID(ctx context.Context, id uint) (*models.Convocatoria, error) {
	var c models.Convocatoria
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *convocatoriaRepo) Insert(ctx context.Context, c *models.Convocatoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *convocatoriaRepo) Update(ctx context.Context, c *models.Convocatoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteWithArchivos removes the attachment rows and the convocatoria in a
// single transaction. Physical file cleanup happens after commit, outside
// this repository.
func (r *convocatoriaRepo) DeleteWithArchivos(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("convocatoria_id = ?", id).
			Delete(&models.ConvocatoriaArchivo{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Convocatoria{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}
