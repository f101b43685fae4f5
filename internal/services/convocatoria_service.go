package services

import (
	"context"
	"errors"
	"net/url"
	"path"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/munivilla/portal/internal/cache"
	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/storage"
	"github.com/munivilla/portal/internal/utils"
)

const (
	defaultPage    = 1
	defaultLimit   = 10
	maxLimit       = 100
	detailCacheTTL = 5 * time.Minute
)

type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

type ConvocatoriaList struct {
	Convocatorias []mysqlrepo.ConvocatoriaConTipo `json:"convocatorias"`
	Pagination    Pagination                      `json:"pagination"`
}

// ConvocatoriaDetail is the detail payload: the convocatoria plus its
// attachments grouped into the five fixed tipo_archivo buckets, each ordered
// by orden. Buckets with no files are present as empty arrays.
type ConvocatoriaDetail struct {
	models.Convocatoria
	Archivos map[models.TipoArchivo][]models.ConvocatoriaArchivo `json:"archivos"`
}

// ConvocatoriaInput carries partial fields; nil leaves a field untouched on
// update and applies the default on create.
type ConvocatoriaInput struct {
	TipoID        *uint
	NombreProceso *string
	Descripcion   *string
	FechaInicio   *string
	FechaFin      *string
	Estado        *models.ConvocatoriaEstado
	Activa        *bool
}

type ConvocatoriaService interface {
	List(ctx context.Context, f mysqlrepo.ConvocatoriaFilter) (*ConvocatoriaList, error)
	Get(ctx context.Context, id uint) (*ConvocatoriaDetail, error)
	Create(ctx context.Context, in ConvocatoriaInput) (*models.Convocatoria, error)
	Update(ctx context.Context, id uint, in ConvocatoriaInput) (*models.Convocatoria, error)
	Delete(ctx context.Context, id uint) error
}

type convocatoriaService struct {
	convocatorias mysqlrepo.ConvocatoriaRepository
	tipos         mysqlrepo.TipoRepository
	archivos      mysqlrepo.ArchivoRepository
	store         storage.Store
	cache         cache.Cache // nil disables caching
	log           *logrus.Logger
}

func NewConvocatoriaService(
	convocatorias mysqlrepo.ConvocatoriaRepository,
	tipos mysqlrepo.TipoRepository,
	archivos mysqlrepo.ArchivoRepository,
	store storage.Store,
	c cache.Cache,
	log *logrus.Logger,
) ConvocatoriaService {
	return &convocatoriaService{
		convocatorias: convocatorias,
		tipos:         tipos,
		archivos:      archivos,
		store:         store,
		cache:         c,
		log:           log,
	}
}

func (s *convocatoriaService) List(ctx context.Context, f mysqlrepo.ConvocatoriaFilter) (*ConvocatoriaList, error) {
	const op = "ConvocatoriaService.List"

	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Activa == nil {
		activa := true
		f.Activa = &activa
	}
	if f.Estado != nil && !f.Estado.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid estado filter", nil)
	}

	rows, total, err := s.convocatorias.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list convocatorias", err)
	}
	if rows == nil {
		rows = []mysqlrepo.ConvocatoriaConTipo{}
	}

	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return &ConvocatoriaList{
		Convocatorias: rows,
		Pagination: Pagination{
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: f.Page,
			Limit:       f.Limit,
		},
	}, nil
}

func (s *convocatoriaService) Get(ctx context.Context, id uint) (*ConvocatoriaDetail, error) {
	const op = "ConvocatoriaService.Get"

	key := cache.ConvocatoriaKey(id)
	if s.cache != nil {
		var cached ConvocatoriaDetail
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	c, err := s.convocatorias.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "convocatoria not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get convocatoria", err)
	}

	rows, err := s.archivos.ListByConvocatoria(ctx, id)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list archivos", err)
	}

	grouped := make(map[models.TipoArchivo][]models.ConvocatoriaArchivo, len(models.TiposArchivo))
	for _, t := range models.TiposArchivo {
		grouped[t] = []models.ConvocatoriaArchivo{}
	}
	for _, a := range rows {
		grouped[a.TipoArchivo] = append(grouped[a.TipoArchivo], a)
	}

	detail := &ConvocatoriaDetail{Convocatoria: *c, Archivos: grouped}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, detail, detailCacheTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("failed to cache convocatoria detail")
		}
	}
	return detail, nil
}

func (s *convocatoriaService) Create(ctx context.Context, in ConvocatoriaInput) (*models.Convocatoria, error) {
	const op = "ConvocatoriaService.Create"

	if in.NombreProceso == nil || *in.NombreProceso == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "nombre_proceso is required", nil)
	}
	if in.TipoID == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "tipo_id is required", nil)
	}
	if in.FechaInicio == nil || *in.FechaInicio == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "fecha_inicio is required", nil)
	}
	if err := s.checkTipo(ctx, *in.TipoID); err != nil {
		return nil, err
	}
	inicio, err := models.ParseDate(*in.FechaInicio)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	c := &models.Convocatoria{
		TipoID:        *in.TipoID,
		NombreProceso: *in.NombreProceso,
		FechaInicio:   inicio,
		Estado:        models.EstadoBorrador,
		Activa:        true,
	}
	if in.Descripcion != nil {
		c.Descripcion = *in.Descripcion
	}
	if in.FechaFin != nil && *in.FechaFin != "" {
		fin, err := models.ParseDate(*in.FechaFin)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
		}
		c.FechaFin = &fin
	}
	if in.Estado != nil {
		if !in.Estado.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid estado", nil)
		}
		c.Estado = *in.Estado
	}
	if in.Activa != nil {
		c.Activa = *in.Activa
	}

	if err := s.convocatorias.Insert(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create convocatoria", err)
	}
	return c, nil
}

func (s *convocatoriaService) Update(ctx context.Context, id uint, in ConvocatoriaInput) (*models.Convocatoria, error) {
	const op = "ConvocatoriaService.Update"

	c, err := s.convocatorias.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "convocatoria not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get convocatoria", err)
	}

	if in.TipoID != nil && *in.TipoID != c.TipoID {
		if err := s.checkTipo(ctx, *in.TipoID); err != nil {
			return nil, err
		}
		c.TipoID = *in.TipoID
	}
	if in.NombreProceso != nil {
		if *in.NombreProceso == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "nombre_proceso cannot be empty", nil)
		}
		c.NombreProceso = *in.NombreProceso
	}
	if in.Descripcion != nil {
		c.Descripcion = *in.Descripcion
	}
	if in.FechaInicio != nil && *in.FechaInicio != "" {
		inicio, err := models.ParseDate(*in.FechaInicio)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
		}
		c.FechaInicio = inicio
	}
	if in.FechaFin != nil {
		if *in.FechaFin == "" {
			c.FechaFin = nil
		} else {
			fin, err := models.ParseDate(*in.FechaFin)
			if err != nil {
				return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
			}
			c.FechaFin = &fin
		}
	}
	if in.Estado != nil {
		// any estado may follow any other; only the value itself is checked
		if !in.Estado.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid estado", nil)
		}
		c.Estado = *in.Estado
	}
	if in.Activa != nil {
		c.Activa = *in.Activa
	}

	if err := s.convocatorias.Update(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update convocatoria", err)
	}
	s.purge(ctx, id)
	return c, nil
}

// Delete removes the convocatoria and its attachment rows in one
// transaction, then unlinks each physical file best-effort. A file that
// cannot be removed is logged and left for the orphan sweeper.
func (s *convocatoriaService) Delete(ctx context.Context, id uint) error {
	const op = "ConvocatoriaService.Delete"

	if _, err := s.convocatorias.GetByID(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "convocatoria not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get convocatoria", err)
	}

	archivos, err := s.archivos.ListByConvocatoria(ctx, id)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list archivos", err)
	}

	if err := s.convocatorias.DeleteWithArchivos(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "convocatoria not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete convocatoria", err)
	}

	for _, a := range archivos {
		name := FilenameFromURL(a.ArchivoURL)
		if name == "" {
			continue
		}
		if err := s.store.Remove(ctx, name); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"convocatoria_id": id,
				"archivo_id":      a.ID,
				"filename":        name,
			}).Warn("failed to remove attachment file")
		}
	}

	s.purge(ctx, id)
	return nil
}

func (s *convocatoriaService) checkTipo(ctx context.Context, tipoID uint) error {
	const op = "ConvocatoriaService.checkTipo"

	_, err := s.tipos.GetByID(ctx, tipoID)
	if err == nil {
		return nil
	}
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInvalidArgument, op, "tipo_id does not reference an existing tipo", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to check tipo", err)
}

func (s *convocatoriaService) purge(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.ConvocatoriaKey(id)); err != nil {
		s.log.WithError(err).WithField("convocatoria_id", id).Warn("failed to purge detail cache")
	}
}

// FilenameFromURL extracts the stored filename from an archivo_url so the
// physical file can be unlinked.
func FilenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return path.Base(raw)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
