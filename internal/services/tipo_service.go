package services

import (
	"context"
	"errors"

	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/utils"
)

// TipoInput carries partial fields for create/update. Nil means "leave as
// is" on update and "use the default" on create.
type TipoInput struct {
	Nombre      *string
	Descripcion *string
	Activo      *bool
}

type TipoService interface {
	List(ctx context.Context) ([]models.ConvocatoriaTipo, error)
	Get(ctx context.Context, id uint) (*models.ConvocatoriaTipo, error)
	Create(ctx context.Context, in TipoInput) (*models.ConvocatoriaTipo, error)
	Update(ctx context.Context, id uint, in TipoInput) (*models.ConvocatoriaTipo, error)
	Delete(ctx context.Context, id uint) error
}

type tipoService struct {
	tipos mysqlrepo.TipoRepository
}

func NewTipoService(tipos mysqlrepo.TipoRepository) TipoService {
	return &tipoService{tipos: tipos}
}

func (s *tipoService) List(ctx context.Context) ([]models.ConvocatoriaTipo, error) {
	const op = "TipoService.List"

	tipos, err := s.tipos.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list tipos", err)
	}
	return tipos, nil
}

func (s *tipoService) Get(ctx context.Context, id uint) (*models.ConvocatoriaTipo, error) {
	const op = "TipoService.Get"

	t, err := s.tipos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "tipo not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get tipo", err)
	}
	return t, nil
}

func (s *tipoService) Create(ctx context.Context, in TipoInput) (*models.ConvocatoriaTipo, error) {
	const op = "TipoService.Create"

	if in.Nombre == nil || *in.Nombre == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "nombre is required", nil)
	}

	t := &models.ConvocatoriaTipo{
		Nombre: *in.Nombre,
		Activo: true,
	}
	if in.Descripcion != nil {
		t.Descripcion = *in.Descripcion
	}
	if in.Activo != nil {
		t.Activo = *in.Activo
	}

	if err := s.tipos.Insert(ctx, t); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create tipo", err)
	}
	return t, nil
}

func (s *tipoService) Update(ctx context.Context, id uint, in TipoInput) (*models.ConvocatoriaTipo, error) {
	const op = "TipoService.Update"

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Nombre != nil {
		if *in.Nombre == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "nombre cannot be empty", nil)
		}
		t.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		t.Descripcion = *in.Descripcion
	}
	if in.Activo != nil {
		t.Activo = *in.Activo
	}

	if err := s.tipos.Update(ctx, t); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update tipo", err)
	}
	return t, nil
}

// Delete enforces the referential guard: a tipo with convocatorias attached
// is rejected with an invalid-argument error rather than removed.
func (s *tipoService) Delete(ctx context.Context, id uint) error {
	const op = "TipoService.Delete"

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.tipos.CountConvocatorias(ctx, id)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to count convocatorias", err)
	}
	if count > 0 {
		return utils.E(utils.CodeInvalidArgument, op, "tipo has associated convocatorias", nil)
	}

	if err := s.tipos.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "tipo not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete tipo", err)
	}
	return nil
}
