package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/munivilla/portal/internal/cache"
	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/storage"
	"github.com/munivilla/portal/internal/utils"
)

const (
	// MaxArchivosPerRequest bounds one upload batch.
	MaxArchivosPerRequest = 10
	// MaxArchivoSize is the per-file ceiling for convocatoria attachments.
	MaxArchivoSize = 10 << 20
)

// attachmentMimeTypes maps allowed extensions to the declared MIME types
// accepted for convocatoria attachments: images, PDF, Word and Excel.
var attachmentMimeTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".xls":  {"application/vnd.ms-excel"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
}

type ArchivoService interface {
	Upload(ctx context.Context, convocatoriaID uint, tipo models.TipoArchivo, nombre string, files []*multipart.FileHeader, baseURL string) ([]models.ConvocatoriaArchivo, error)
	Delete(ctx context.Context, convocatoriaID, archivoID uint) error
}

type archivoService struct {
	convocatorias mysqlrepo.ConvocatoriaRepository
	archivos      mysqlrepo.ArchivoRepository
	store         storage.Store
	cache         cache.Cache // nil disables caching
	log           *logrus.Logger
}

func NewArchivoService(
	convocatorias mysqlrepo.ConvocatoriaRepository,
	archivos mysqlrepo.ArchivoRepository,
	store storage.Store,
	c cache.Cache,
	log *logrus.Logger,
) ArchivoService {
	return &archivoService{
		convocatorias: convocatorias,
		archivos:      archivos,
		store:         store,
		cache:         c,
		log:           log,
	}
}

// Upload runs in two phases: every file of the batch is validated before any
// byte is written to storage, so a rejected request leaves nothing on disk.
// Rows are inserted in one transaction with orden continuing the existing
// sequence of the (convocatoria, tipo) partition.
func (s *archivoService) Upload(ctx context.Context, convocatoriaID uint, tipo models.TipoArchivo, nombre string, files []*multipart.FileHeader, baseURL string) ([]models.ConvocatoriaArchivo, error) {
	const op = "ArchivoService.Upload"

	if !tipo.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "tipo_archivo must be one of: bases, resultado_curricular, resultado_entrevista, resultado_final, comunicado", nil)
	}
	if len(files) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one file is required", nil)
	}
	if len(files) > MaxArchivosPerRequest {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("at most %d files per request", MaxArchivosPerRequest), nil)
	}

	if _, err := s.convocatorias.GetByID(ctx, convocatoriaID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "convocatoria not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get convocatoria", err)
	}

	// phase 1: validate the whole batch
	for _, fh := range files {
		if err := validateAttachment(fh); err != nil {
			return nil, err
		}
	}

	// phase 2: persist bytes; roll the batch back on any failure
	saved := make([]string, 0, len(files))
	rollback := func() {
		for _, name := range saved {
			if err := s.store.Remove(ctx, name); err != nil {
				s.log.WithError(err).WithField("filename", name).Warn("failed to remove file during upload rollback")
			}
		}
	}

	for _, fh := range files {
		name := storage.GenerateFilename(fh.Filename)
		src, err := fh.Open()
		if err != nil {
			rollback()
			return nil, utils.E(utils.CodeInternal, op, "failed to open uploaded file", err)
		}
		err = s.store.Save(ctx, name, src)
		_ = src.Close()
		if err != nil {
			rollback()
			return nil, utils.E(utils.CodeInternal, op, "failed to store uploaded file", err)
		}
		saved = append(saved, name)
	}

	displayName := strings.TrimSpace(nombre)
	if displayName == "" {
		displayName = tipo.NombrePorDefecto()
	}

	rows := make([]*models.ConvocatoriaArchivo, len(files))
	for i, name := range saved {
		rowName := displayName
		if len(files) > 1 {
			rowName = fmt.Sprintf("%s (%d)", displayName, i+1)
		}
		rows[i] = &models.ConvocatoriaArchivo{
			ConvocatoriaID: convocatoriaID,
			TipoArchivo:    tipo,
			Nombre:         rowName,
			ArchivoURL:     fmt.Sprintf("%s/public/uploads/%s", strings.TrimRight(baseURL, "/"), name),
		}
	}

	if err := s.archivos.InsertBatch(ctx, rows); err != nil {
		rollback()
		return nil, utils.E(utils.CodeInternal, op, "failed to persist archivo metadata", err)
	}

	s.purge(ctx, convocatoriaID)

	out := make([]models.ConvocatoriaArchivo, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out, nil
}

// Delete removes one attachment. The row must belong to the given
// convocatoria; the physical file removal is best-effort.
func (s *archivoService) Delete(ctx context.Context, convocatoriaID, archivoID uint) error {
	const op = "ArchivoService.Delete"

	a, err := s.archivos.GetOwned(ctx, convocatoriaID, archivoID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "archivo not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get archivo", err)
	}

	if err := s.archivos.Delete(ctx, archivoID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "archivo not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete archivo", err)
	}

	if name := FilenameFromURL(a.ArchivoURL); name != "" {
		if err := s.store.Remove(ctx, name); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"archivo_id": archivoID,
				"filename":   name,
			}).Warn("failed to remove attachment file")
		}
	}

	s.purge(ctx, convocatoriaID)
	return nil
}

func (s *archivoService) purge(ctx context.Context, convocatoriaID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.ConvocatoriaKey(convocatoriaID)); err != nil {
		s.log.WithError(err).WithField("convocatoria_id", convocatoriaID).Warn("failed to purge detail cache")
	}
}

func validateAttachment(fh *multipart.FileHeader) error {
	const op = "ArchivoService.Upload"

	if fh.Size <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("file %q is empty", fh.Filename), nil)
	}
	if fh.Size > MaxArchivoSize {
		return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("file %q exceeds the 10MB limit", fh.Filename), nil)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	allowed, ok := attachmentMimeTypes[ext]
	if !ok {
		return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("file type %q is not allowed", ext), nil)
	}

	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, m := range allowed {
		if ct == m {
			return nil
		}
	}
	return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("MIME type %q is not allowed for %s files", ct, ext), nil)
}
