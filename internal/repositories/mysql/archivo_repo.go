package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/munivilla/portal/internal/models"
	"github.com/munivilla/portal/internal/utils"
)

type ArchivoRepository interface {
	ListByConvocatoria(ctx context.Context, convocatoriaID uint) ([]models.ConvocatoriaArchivo, error)
	GetOwned(ctx context.Context, convocatoriaID, archivoID uint) (*models.ConvocatoriaArchivo, error)
	InsertBatch(ctx context.Context, archivos []*models.ConvocatoriaArchivo) error
	Delete(ctx context.Context, id uint) error
	CountByConvocatoria(ctx context.Context, convocatoriaID uint) (int64, error)
	AllURLs(ctx context.Context) ([]string, error)
}

type archivoRepo struct {
	db *gorm.DB
}

func NewArchivoRepo(db *gorm.DB) ArchivoRepository {
	return &archivoRepo{db: db}
}

func (r *archivoRepo) ListByConvocatoria(ctx context.Context, convocatoriaID uint) ([]models.ConvocatoriaArchivo, error) {
	var rows []models.ConvocatoriaArchivo
	err := r.db.WithContext(ctx).
		Where("convocatoria_id = ?", convocatoriaID).
		Order("tipo_archivo ASC, orden ASC").
		Find(&rows).Error
	return rows, err
}

// GetOwned matches on both ids so an archivo can only be addressed through
// its owning convocatoria.
func (r *archivoRepo) GetOwned(ctx context.Context, convocatoriaID, archivoID uint) (*models.ConvocatoriaArchivo, error) {
	var a models.ConvocatoriaArchivo
	err := r.db.WithContext(ctx).
		Where("id = ? AND convocatoria_id = ?", archivoID, convocatoriaID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

// InsertBatch assigns each row orden = max(orden)+1 onward within its
// (convocatoria_id, tipo_archivo) partition, inside one transaction, so
// successive upload batches extend the sequence instead of restarting at 0.
// All rows of one batch share the same convocatoria and tipo.
func (r *archivoRepo) InsertBatch(ctx context.Context, archivos []*models.ConvocatoriaArchivo) error {
	if len(archivos) == 0 {
		return nil
	}
	convocatoriaID := archivos[0].ConvocatoriaID
	tipo := archivos[0].TipoArchivo

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max sql.NullInt64
		if err := tx.Model(&models.ConvocatoriaArchivo{}).
			Where("convocatoria_id = ? AND tipo_archivo = ?", convocatoriaID, tipo).
			Select("MAX(orden)").
			Scan(&max).Error; err != nil {
			return err
		}

		next := 0
		if max.Valid {
			next = int(max.Int64) + 1
		}
		for i, a := range archivos {
			a.Orden = next + i
		}
		return tx.Create(&archivos).Error
	})
}

func (r *archivoRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ConvocatoriaArchivo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *archivoRepo) CountByConvocatoria(ctx context.Context, convocatoriaID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConvocatoriaArchivo{}).
		Where("convocatoria_id = ?", convocatoriaID).
		Count(&count).Error
	return count, err
}

// AllURLs feeds the orphan sweeper with every referenced file URL.
func (r *archivoRepo) AllURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&models.ConvocatoriaArchivo{}).
		Pluck("archivo_url", &urls).Error
	return urls, err
}
