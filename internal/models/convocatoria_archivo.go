package models

import "time"

// TipoArchivo is the document slot an attachment belongs to. Every
// convocatoria exposes exactly these five slots, each holding an ordered
// list of files.
type TipoArchivo string

const (
	ArchivoBases               TipoArchivo = "bases"
	ArchivoResultadoCurricular TipoArchivo = "resultado_curricular"
	ArchivoResultadoEntrevista TipoArchivo = "resultado_entrevista"
	ArchivoResultadoFinal      TipoArchivo = "resultado_final"
	ArchivoComunicado          TipoArchivo = "comunicado"
)

// TiposArchivo lists the slots in display order.
var TiposArchivo = []TipoArchivo{
	ArchivoBases,
	ArchivoResultadoCurricular,
	ArchivoResultadoEntrevista,
	ArchivoResultadoFinal,
	ArchivoComunicado,
}

func (t TipoArchivo) Valid() bool {
	switch t {
	case ArchivoBases, ArchivoResultadoCurricular, ArchivoResultadoEntrevista,
		ArchivoResultadoFinal, ArchivoComunicado:
		return true
	}
	return false
}

// NombrePorDefecto is the display name used when an upload request does not
// carry one.
func (t TipoArchivo) NombrePorDefecto() string {
	switch t {
	case ArchivoBases:
		return "Bases del proceso"
	case ArchivoResultadoCurricular:
		return "Resultado curricular"
	case ArchivoResultadoEntrevista:
		return "Resultado de entrevista"
	case ArchivoResultadoFinal:
		return "Resultado final"
	case ArchivoComunicado:
		return "Comunicado"
	}
	return "Documento"
}

// ConvocatoriaArchivo is one uploaded file owned by exactly one
// convocatoria. Orden is the zero-based position within the
// (convocatoria_id, tipo_archivo) partition; the physical file is owned
// exclusively by this row.
type ConvocatoriaArchivo struct {
	ID             uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConvocatoriaID uint        `gorm:"column:convocatoria_id;not null;index:idx_archivos_conv_tipo" json:"convocatoria_id"`
	TipoArchivo    TipoArchivo `gorm:"column:tipo_archivo;type:varchar(30);not null;index:idx_archivos_conv_tipo" json:"tipo_archivo"`
	Nombre         string      `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	ArchivoURL     string      `gorm:"column:archivo_url;type:text;not null" json:"archivo_url"`
	Orden          int         `gorm:"column:orden;not null;default:0" json:"orden"`
	CreatedAt      time.Time   `gorm:"column:created_at" json:"created_at"`
}

func (ConvocatoriaArchivo) TableName() string { return "convocatoria_archivos" }
