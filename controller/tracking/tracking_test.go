package tracking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"maengelportal/model"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Submission{}, &model.UploadedFile{},
		&model.Bauleitung{}, &model.Verantwortlicher{}, &model.Gewerk{}, &model.Firma{},
	))

	router := gin.New()
	TrackingController(router, db)
	return router, db
}

func seedSubmission(t *testing.T, db *gorm.DB) model.Submission {
	t.Helper()
	gewerk := model.Gewerk{Name: "Elektro", Active: true}
	require.NoError(t, db.Create(&gewerk).Error)

	s := model.Submission{
		Vorname: "Max", Nachname: "Mustermann",
		PLZ: "04442", Ort: "Zwenkau",
		Email: "Max@Example.com", TCNummer: "TC-1",
		Beschreibung:  "Feuchtigkeit an der Außenwand im Wohnzimmer.",
		Status:        model.StatusInBearbeitung,
		TrackingToken: "abc123token",
		GewerkID:      &gewerk.ItemID,
	}
	require.NoError(t, db.Create(&s).Error)
	require.NoError(t, db.Create(&model.UploadedFile{
		SubmissionID: s.SubmissionID, Name: "riss.jpg", Type: "image/jpeg", Size: 4, URL: "memory://x",
	}).Error)
	return s
}

func track(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestTrackUnknownToken(t *testing.T) {
	router, _ := setupTest(t)
	w, _ := track(t, router, "/track/unbekannt")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackWithoutParamsAsksForVerification(t *testing.T) {
	router, db := setupTest(t)
	seedSubmission(t, db)

	w, body := track(t, router, "/track/abc123token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["verified"])
	assert.Equal(t, true, body["requiresVerification"])
	assert.Equal(t, "TC-1", body["tcNummer"])
	assert.NotContains(t, body, "submission", "no data before verification")
}

func TestTrackMismatchIsGenericForbidden(t *testing.T) {
	router, db := setupTest(t)
	seedSubmission(t, db)

	w, _ := track(t, router, "/track/abc123token?plz=99999&email=max@example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = track(t, router, "/track/abc123token?plz=04442&email=falsch@example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTrackVerifiedReturnsSubmission(t *testing.T) {
	router, db := setupTest(t)
	seedSubmission(t, db)

	// E-Mail case-insensitiv, PLZ exakt
	w, body := track(t, router, "/track/abc123token?plz=04442&email=MAX@example.com")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["verified"])

	submission, ok := body["submission"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "In Bearbeitung", submission["status"])
	assert.Equal(t, "Elektro", submission["gewerk"])
	files, ok := submission["files"].([]interface{})
	require.True(t, ok)
	assert.Len(t, files, 1)
}
