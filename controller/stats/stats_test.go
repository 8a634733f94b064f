package stats

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"maengelportal/controller/auth"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestStatsGrouping(t *testing.T) {
	t.Setenv("SESSION_SECRET_KEY", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Submission{},
		&model.Bauleitung{}, &model.Verantwortlicher{}, &model.Gewerk{}, &model.Firma{},
		&model.AdminUser{},
	))

	router := gin.New()
	StatsController(router, db)
	auth.AdminAuthController(router, db)

	hashed, err := bcrypt.GenerateFromPassword([]byte("geheim123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.AdminUser{
		Username: "pruefer", PasswordHash: string(hashed), Role: model.RoleStaff,
	}).Error)

	elektro := model.Gewerk{Name: "Elektro", Active: true}
	estrich := model.Gewerk{Name: "Estrich", Active: true}
	arndt := model.Firma{Name: "Arndt", Active: true}
	require.NoError(t, db.Create(&elektro).Error)
	require.NoError(t, db.Create(&estrich).Error)
	require.NoError(t, db.Create(&arndt).Error)

	rows := []model.Submission{
		{Vorname: "A", GewerkID: &elektro.ItemID, FirmaID: &arndt.ItemID, TrackingToken: "g1"},
		{Vorname: "B", GewerkID: &elektro.ItemID, TrackingToken: "g2"},
		{Vorname: "C", GewerkID: &estrich.ItemID, TrackingToken: "g3"},
		{Vorname: "D", TrackingToken: "g4"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	body, _ := json.Marshal(map[string]string{"username": "pruefer", "password": "geheim123"})
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/admin/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	login := httptest.NewRecorder()
	router.ServeHTTP(login, loginReq)
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Total    int `json:"total"`
		ByGewerk []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"byGewerk"`
		ByFirma []struct {
			Name   string `json:"name"`
			Gewerk string `json:"gewerk"`
			Count  int    `json:"count"`
		} `json:"byFirma"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.ByGewerk, 2)
	assert.Equal(t, "Elektro", resp.ByGewerk[0].Name, "sorted descending by count")
	assert.Equal(t, 2, resp.ByGewerk[0].Count)
	require.Len(t, resp.ByFirma, 1)
	assert.Equal(t, "Arndt", resp.ByFirma[0].Name)
	assert.Equal(t, "Elektro", resp.ByFirma[0].Gewerk)
}
