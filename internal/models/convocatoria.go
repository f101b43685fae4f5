package models

import "time"

type ConvocatoriaEstado string

const (
	EstadoBorrador   ConvocatoriaEstado = "borrador"
	EstadoPublicada  ConvocatoriaEstado = "publicada"
	EstadoEnProceso  ConvocatoriaEstado = "en_proceso"
	EstadoFinalizada ConvocatoriaEstado = "finalizada"
)

// Valid reports whether e is one of the known estados. Transitions between
// estados are deliberately unconstrained; the admin panel uses free-form
// corrections.
func (e ConvocatoriaEstado) Valid() bool {
	switch e {
	case EstadoBorrador, EstadoPublicada, EstadoEnProceso, EstadoFinalizada:
		return true
	}
	return false
}

// Convocatoria is a single hiring process. Dates live in DATE columns and
// serialize as YYYY-MM-DD; FechaFin is optional.
type Convocatoria struct {
	ID            uint               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TipoID        uint               `gorm:"column:tipo_id;not null;index" json:"tipo_id"`
	NombreProceso string             `gorm:"column:nombre_proceso;type:varchar(255);not null" json:"nombre_proceso"`
	Descripcion   string             `gorm:"column:descripcion;type:text" json:"descripcion"`
	FechaInicio   Date               `gorm:"column:fecha_inicio;not null" json:"fecha_inicio"`
	FechaFin      *Date              `gorm:"column:fecha_fin" json:"fecha_fin"`
	Estado        ConvocatoriaEstado `gorm:"column:estado;type:varchar(20);not null;default:borrador" json:"estado"`
	Activa        bool               `gorm:"column:activa;not null;default:true" json:"activa"`
	CreatedAt     time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at" json:"updated_at"`
}

func (Convocatoria) TableName() string { return "convocatorias" }
