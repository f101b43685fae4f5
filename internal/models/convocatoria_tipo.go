package models

import "time"

// ConvocatoriaTipo classifies hiring processes (e.g. "Obreros", "CAS").
// A tipo cannot be deleted while any convocatoria references it; the guard
// lives in the service layer, not only in the schema.
type ConvocatoriaTipo struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nombre      string    `gorm:"column:nombre;type:varchar(120);not null" json:"nombre"`
	Descripcion string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	Activo      bool      `gorm:"column:activo;not null;default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ConvocatoriaTipo) TableName() string { return "convocatoria_tipos" }
