package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/munivilla/portal/internal/api/handlers"
	"github.com/munivilla/portal/internal/api/routes"
	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/storage"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router     *gin.Engine
	db         *gorm.DB
	uploadsDir string
	adminToken string
	userToken  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handlers_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ConvocatoriaTipo{},
		&models.Convocatoria{},
		&models.ConvocatoriaArchivo{},
	))

	uploadsDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadsDir)
	require.NoError(t, err)

	logg := logrus.New()
	logg.SetOutput(io.Discard)

	userRepo := mysqlrepo.NewUserRepo(db)
	tipoRepo := mysqlrepo.NewTipoRepo(db)
	convRepo := mysqlrepo.NewConvocatoriaRepo(db)
	archivoRepo := mysqlrepo.NewArchivoRepo(db)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Auth:          handlers.NewAuthHandler(services.NewAuthService(userRepo, testSecret, logg)),
		Tipos:         handlers.NewTipoHandler(services.NewTipoService(tipoRepo)),
		Convocatorias: handlers.NewConvocatoriaHandler(services.NewConvocatoriaService(convRepo, tipoRepo, archivoRepo, store, nil, logg)),
		Archivos:      handlers.NewArchivoHandler(services.NewArchivoService(convRepo, archivoRepo, store, nil, logg), ""),
		JWTSecret:     testSecret,
		UploadsDir:    uploadsDir,
	})

	return &testEnv{
		router:     r,
		db:         db,
		uploadsDir: uploadsDir,
		adminToken: signToken(t, "admin-1", "admin"),
		userToken:  signToken(t, "user-1", "user"),
	}
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	now := time.Now()
	claims := services.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: userID,
		Role:   role,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

type uploadFile struct {
	name    string
	mime    string
	content []byte
}

func (e *testEnv) upload(t *testing.T, convocatoriaID uint, token string, fields map[string]string, files []uploadFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="archivos"; filename="%s"`, f.name))
		h.Set("Content-Type", f.mime)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/convocatorias/%d/archivos", convocatoriaID), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) createTipo(t *testing.T, nombre string) uint {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/convocatoria-tipos", e.adminToken, gin.H{"nombre": nombre})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var tipo models.ConvocatoriaTipo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tipo))
	return tipo.ID
}

func (e *testEnv) createConvocatoria(t *testing.T, nombre string, tipoID uint) uint {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{
		"nombre_proceso": nombre,
		"tipo_id":        tipoID,
		"fecha_inicio":   "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created models.Convocatoria
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func (e *testEnv) uploadDirEntries(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.uploadsDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, en := range entries {
		names = append(names, en.Name())
	}
	return names
}

type archivoJSON struct {
	ID         uint   `json:"id"`
	Nombre     string `json:"nombre"`
	ArchivoURL string `json:"archivo_url"`
	Orden      int    `json:"orden"`
}

type detailJSON struct {
	ID          uint                     `json:"id"`
	Estado      string                   `json:"estado"`
	Activa      bool                     `json:"activa"`
	FechaInicio string                   `json:"fecha_inicio"`
	FechaFin    *string                  `json:"fecha_fin"`
	Archivos    map[string][]archivoJSON `json:"archivos"`
}

var pdfBytes = []byte("%PDF-1.4\n%municipal test fixture\n")

func TestConvocatoriaLifecycle(t *testing.T) {
	e := newTestEnv(t)

	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Convocatoria 2024-01", tipoID)

	// defaults applied at create time
	detail := e.getDetail(t, convID)
	assert.Equal(t, "borrador", detail.Estado)
	assert.True(t, detail.Activa)
	assert.Equal(t, "2024-01-01", detail.FechaInicio)
	assert.Len(t, detail.Archivos, 5)
	for tipo, bucket := range detail.Archivos {
		assert.Empty(t, bucket, "bucket %s should start empty", tipo)
	}

	// upload two PDFs into the bases slot
	resp := e.upload(t, convID, e.adminToken, map[string]string{"tipo_archivo": "bases"}, []uploadFile{
		{name: "bases.pdf", mime: "application/pdf", content: pdfBytes},
		{name: "anexo.pdf", mime: "application/pdf", content: pdfBytes},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	detail = e.getDetail(t, convID)
	bases := detail.Archivos["bases"]
	require.Len(t, bases, 2)
	assert.Equal(t, 0, bases[0].Orden)
	assert.Equal(t, 1, bases[1].Orden)
	assert.Equal(t, "Bases del proceso (1)", bases[0].Nombre)
	assert.Equal(t, "Bases del proceso (2)", bases[1].Nombre)

	// every archivo_url is retrievable through the static route
	for _, a := range bases {
		name := services.FilenameFromURL(a.ArchivoURL)
		get, _ := http.NewRequest(http.MethodGet, "/public/uploads/"+name, nil)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, get)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// a second batch continues the orden sequence instead of restarting
	resp = e.upload(t, convID, e.adminToken, map[string]string{"tipo_archivo": "bases"}, []uploadFile{
		{name: "fe-de-erratas.pdf", mime: "application/pdf", content: pdfBytes},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	detail = e.getDetail(t, convID)
	bases = detail.Archivos["bases"]
	require.Len(t, bases, 3)
	assert.Equal(t, 2, bases[2].Orden)
	assert.Equal(t, "Bases del proceso", bases[2].Nombre)

	// delete cascades rows and removes every physical file
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatorias/%d", convID), e.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatorias/%d", convID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.ConvocatoriaArchivo{}).Where("convocatoria_id = ?", convID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, e.uploadDirEntries(t))
}

func (e *testEnv) getDetail(t *testing.T, id uint) detailJSON {
	t.Helper()
	resp := e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatorias/%d", id), "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var d detailJSON
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &d))
	return d
}

func TestCreateConvocatoria_DanglingTipo(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{
		"nombre_proceso": "Sin tipo",
		"tipo_id":        9999,
		"fecha_inicio":   "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.Convocatoria{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateConvocatoria_MissingFields(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "CAS")

	resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{"tipo_id": tipoID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "nombre_proceso")
}

func TestUpload_RejectsDisallowedMime(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	resp := e.upload(t, convID, e.adminToken, map[string]string{"tipo_archivo": "bases"}, []uploadFile{
		{name: "script.exe", mime: "application/octet-stream", content: []byte("MZ")},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.ConvocatoriaArchivo{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	// validate-first pipeline: the rejected file never reached the store
	assert.Empty(t, e.uploadDirEntries(t))
}

func TestUpload_RejectsWholeBatchOnOneBadFile(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	resp := e.upload(t, convID, e.adminToken, map[string]string{"tipo_archivo": "bases"}, []uploadFile{
		{name: "ok.pdf", mime: "application/pdf", content: pdfBytes},
		{name: "bad.bin", mime: "application/octet-stream", content: []byte{0x00}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, e.uploadDirEntries(t))
}

func TestUpload_UnknownTipoArchivo(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	resp := e.upload(t, convID, e.adminToken, map[string]string{"tipo_archivo": "otros"}, []uploadFile{
		{name: "doc.pdf", mime: "application/pdf", content: pdfBytes},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, e.uploadDirEntries(t))
}

func TestUpload_ConvocatoriaNotFound(t *testing.T) {
	e := newTestEnv(t)

	resp := e.upload(t, 424242, e.adminToken, map[string]string{"tipo_archivo": "bases"}, []uploadFile{
		{name: "doc.pdf", mime: "application/pdf", content: pdfBytes},
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteArchivo_CompoundOwnershipMatch(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convA := e.createConvocatoria(t, "Proceso A", tipoID)
	convB := e.createConvocatoria(t, "Proceso B", tipoID)

	resp := e.upload(t, convA, e.adminToken, map[string]string{"tipo_archivo": "comunicado"}, []uploadFile{
		{name: "comunicado.pdf", mime: "application/pdf", content: pdfBytes},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var payload struct {
		Archivos []archivoJSON `json:"archivos"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Len(t, payload.Archivos, 1)
	archivoID := payload.Archivos[0].ID

	// addressed through the wrong parent: not found, row intact
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatorias/%d/archivos/%d", convB, archivoID), e.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Len(t, e.uploadDirEntries(t), 1)

	// addressed through the owner: removed, file gone
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatorias/%d/archivos/%d", convA, archivoID), e.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, e.uploadDirEntries(t))
}

func TestMutations_RequireAdminToken(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/convocatorias"},
		{http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", convID)},
		{http.MethodDelete, fmt.Sprintf("/api/convocatorias/%d", convID)},
		{http.MethodPost, "/api/convocatoria-tipos"},
		{http.MethodDelete, fmt.Sprintf("/api/convocatoria-tipos/%d", tipoID)},
	}

	for _, p := range paths {
		resp := e.do(t, p.method, p.path, "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s without token", p.method, p.path)

		resp = e.do(t, p.method, p.path, e.userToken, gin.H{})
		assert.Equal(t, http.StatusForbidden, resp.Code, "%s %s with non-admin token", p.method, p.path)
	}
}

func TestDeleteTipo_GuardedByReferences(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	resp := e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatoria-tipos/%d", tipoID), e.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// tipo and convocatoria intact
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatoria-tipos/%d", tipoID), "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatorias/%d", convID), "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// once the reference is gone the tipo can be deleted
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatorias/%d", convID), e.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = e.do(t, http.MethodDelete, fmt.Sprintf("/api/convocatoria-tipos/%d", tipoID), e.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListConvocatorias_FiltersAndPagination(t *testing.T) {
	e := newTestEnv(t)
	obreros := e.createTipo(t, "Obreros")
	cas := e.createTipo(t, "CAS")

	for i := 0; i < 12; i++ {
		resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{
			"nombre_proceso": fmt.Sprintf("Proceso %02d", i),
			"tipo_id":        obreros,
			"fecha_inicio":   fmt.Sprintf("2024-01-%02d", i+1),
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}
	resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{
		"nombre_proceso": "Proceso CAS",
		"tipo_id":        cas,
		"fecha_inicio":   "2024-06-01",
		"estado":         "publicada",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	type listJSON struct {
		Convocatorias []struct {
			NombreProceso string `json:"nombre_proceso"`
			FechaInicio   string `json:"fecha_inicio"`
			TipoNombre    string `json:"tipo_nombre"`
		} `json:"convocatorias"`
		Pagination struct {
			Total       int64 `json:"total"`
			TotalPages  int   `json:"totalPages"`
			CurrentPage int   `json:"currentPage"`
			Limit       int   `json:"limit"`
		} `json:"pagination"`
	}

	// default page/limit, ordered by fecha_inicio descending
	resp = e.do(t, http.MethodGet, "/api/convocatorias", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page1 listJSON
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page1))
	assert.EqualValues(t, 13, page1.Pagination.Total)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	assert.Equal(t, 1, page1.Pagination.CurrentPage)
	assert.Equal(t, 10, page1.Pagination.Limit)
	require.Len(t, page1.Convocatorias, 10)
	assert.Equal(t, "Proceso CAS", page1.Convocatorias[0].NombreProceso)
	assert.Equal(t, "CAS", page1.Convocatorias[0].TipoNombre)

	resp = e.do(t, http.MethodGet, "/api/convocatorias?page=2", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page2 listJSON
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page2))
	assert.Len(t, page2.Convocatorias, 3)
	assert.Equal(t, 2, page2.Pagination.CurrentPage)

	// filter by tipo
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatorias?tipo_id=%d", cas), "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var byTipo listJSON
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &byTipo))
	assert.EqualValues(t, 1, byTipo.Pagination.Total)

	// filter by estado
	resp = e.do(t, http.MethodGet, "/api/convocatorias?estado=publicada", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var byEstado listJSON
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &byEstado))
	assert.EqualValues(t, 1, byEstado.Pagination.Total)

	resp = e.do(t, http.MethodGet, "/api/convocatorias?estado=inexistente", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListConvocatorias_ActivaDefaultsTrue(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	activeID := e.createConvocatoria(t, "Activa", tipoID)
	hiddenID := e.createConvocatoria(t, "Oculta", tipoID)

	resp := e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", hiddenID), e.adminToken, gin.H{"activa": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Convocatorias []models.Convocatoria `json:"convocatorias"`
	}
	resp = e.do(t, http.MethodGet, "/api/convocatorias", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Convocatorias, 1)
	assert.Equal(t, activeID, out.Convocatorias[0].ID)

	resp = e.do(t, http.MethodGet, "/api/convocatorias?activa=false", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Convocatorias, 1)
	assert.Equal(t, hiddenID, out.Convocatorias[0].ID)

	// detail ignores the activa flag: the hidden record still resolves
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/convocatorias/%d", hiddenID), "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUpdateConvocatoria_PartialAndEstado(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")
	convID := e.createConvocatoria(t, "Proceso", tipoID)

	// estado transitions are free-form, including backwards
	for _, estado := range []string{"finalizada", "borrador", "en_proceso"} {
		resp := e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", convID), e.adminToken, gin.H{"estado": estado})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		var updated models.Convocatoria
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
		assert.EqualValues(t, estado, updated.Estado)
	}

	resp := e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", convID), e.adminToken, gin.H{"estado": "cerrada"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", convID), e.adminToken, gin.H{"tipo_id": 777})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = e.do(t, http.MethodPut, "/api/convocatorias/99999", e.adminToken, gin.H{"descripcion": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestConvocatoriaFechas_RoundTripThroughAPI(t *testing.T) {
	e := newTestEnv(t)
	tipoID := e.createTipo(t, "Obreros")

	resp := e.do(t, http.MethodPost, "/api/convocatorias", e.adminToken, gin.H{
		"nombre_proceso": "Proceso",
		"tipo_id":        tipoID,
		"fecha_inicio":   "2024-01-01",
		"fecha_fin":      "2024-12-31",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created models.Convocatoria
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	// the stored days come back exactly as sent, not as timestamps
	detail := e.getDetail(t, created.ID)
	assert.Equal(t, "2024-01-01", detail.FechaInicio)
	require.NotNil(t, detail.FechaFin)
	assert.Equal(t, "2024-12-31", *detail.FechaFin)

	// an unrelated partial update must not disturb them
	resp = e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", created.ID), e.adminToken, gin.H{"descripcion": "editada"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	detail = e.getDetail(t, created.ID)
	assert.Equal(t, "2024-01-01", detail.FechaInicio)
	require.NotNil(t, detail.FechaFin)
	assert.Equal(t, "2024-12-31", *detail.FechaFin)

	// an empty fecha_fin clears it; a malformed date is rejected
	resp = e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", created.ID), e.adminToken, gin.H{"fecha_fin": ""})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	detail = e.getDetail(t, created.ID)
	assert.Nil(t, detail.FechaFin)

	resp = e.do(t, http.MethodPut, fmt.Sprintf("/api/convocatorias/%d", created.ID), e.adminToken, gin.H{"fecha_inicio": "01/02/2024"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
