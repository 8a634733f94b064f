package auth

import (
	"bytes"
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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("SESSION_SECRET_KEY", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Submission{}, &model.UploadedFile{},
		&model.AdminUser{}, &model.Customer{},
	))

	router := gin.New()
	AdminAuthController(router, db)
	CustomerAuthController(router, db)
	return router, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAdminLoginWrongCredentials(t *testing.T) {
	router, db := setupTest(t)
	require.NoError(t, db.Create(&model.AdminUser{
		Username: "pruefer", PasswordHash: hash(t, "geheim123"), Role: model.RoleStaff,
	}).Error)

	w := postJSON(t, router, "/auth/admin/login", map[string]string{"username": "pruefer", "password": "falsch"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/auth/admin/login", map[string]string{"username": "niemand", "password": "geheim123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginReportsMustChangePassword(t *testing.T) {
	router, db := setupTest(t)
	require.NoError(t, db.Create(&model.AdminUser{
		Username: "pruefer", PasswordHash: hash(t, "admin123"),
		Role: model.RoleAdmin, MustChangePassword: true,
	}).Error)

	w := postJSON(t, router, "/auth/admin/login", map[string]string{"username": "pruefer", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["mustChangePassword"])
	assert.NotEmpty(t, w.Result().Cookies(), "login must set the session cookie")
}

func TestAdminChangePasswordClearsFlag(t *testing.T) {
	router, db := setupTest(t)
	require.NoError(t, db.Create(&model.AdminUser{
		Username: "pruefer", PasswordHash: hash(t, "admin123"),
		Role: model.RoleAdmin, MustChangePassword: true,
	}).Error)

	login := postJSON(t, router, "/auth/admin/login", map[string]string{"username": "pruefer", "password": "admin123"})
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	w := postJSON(t, router, "/auth/admin/change-password",
		map[string]string{"oldPassword": "admin123", "newPassword": "kurz"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code, "short passwords are rejected")

	w = postJSON(t, router, "/auth/admin/change-password",
		map[string]string{"oldPassword": "falsch", "newPassword": "neuesgeheimnis"}, cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/auth/admin/change-password",
		map[string]string{"oldPassword": "admin123", "newPassword": "neuesgeheimnis"}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var admin model.AdminUser
	require.NoError(t, db.Where("username = ?", "pruefer").First(&admin).Error)
	assert.False(t, admin.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("neuesgeheimnis")))
}

func seedCustomer(t *testing.T, db *gorm.DB, passwordHash string) model.Customer {
	t.Helper()
	s := model.Submission{Vorname: "Max", Nachname: "Mustermann", Email: "Max@Example.com", TCNummer: "TC-1", TrackingToken: "ct1"}
	require.NoError(t, db.Create(&s).Error)
	customer := model.Customer{
		SubmissionID: s.SubmissionID,
		Email:        s.Email,
		TCNummer:     s.TCNummer,
		PasswordHash: passwordHash,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func TestCustomerLoginWithoutPasswordSetUp(t *testing.T) {
	router, db := setupTest(t)
	seedCustomer(t, db, "")

	// E-Mail-Vergleich ist case-insensitiv
	w := postJSON(t, router, "/auth/customer/login", map[string]string{"email": "max@example.com", "tcNummer": "TC-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["requiresPasswordSetup"])
}

func TestCustomerLoginRequiresPassword(t *testing.T) {
	router, db := setupTest(t)
	seedCustomer(t, db, hash(t, "kundenpass"))

	w := postJSON(t, router, "/auth/customer/login", map[string]string{"email": "max@example.com", "tcNummer": "TC-1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["requiresPassword"])

	w = postJSON(t, router, "/auth/customer/login", map[string]string{"email": "max@example.com", "tcNummer": "TC-1", "password": "kundenpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCustomerLoginWrongTCNummer(t *testing.T) {
	router, db := setupTest(t)
	seedCustomer(t, db, "")

	w := postJSON(t, router, "/auth/customer/login", map[string]string{"email": "max@example.com", "tcNummer": "TC-99"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerSetupPasswordOnlyOnce(t *testing.T) {
	router, db := setupTest(t)
	seedCustomer(t, db, "")

	w := postJSON(t, router, "/auth/customer/setup-password",
		map[string]string{"email": "max@example.com", "tcNummer": "TC-1", "password": "kundenpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(t, router, "/auth/customer/setup-password",
		map[string]string{"email": "max@example.com", "tcNummer": "TC-1", "password": "anderespass"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCustomerChangePasswordReplacesTempPassword(t *testing.T) {
	router, db := setupTest(t)
	customer := seedCustomer(t, db, hash(t, "tempPass123"))

	w := postJSON(t, router, "/auth/customer/change-password",
		map[string]string{"oldPassword": "tempPass123", "newPassword": "eigenesPasswort"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "requires a customer session")

	login := postJSON(t, router, "/auth/customer/login",
		map[string]string{"email": "max@example.com", "tcNummer": "TC-1", "password": "tempPass123"})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	cookies := login.Result().Cookies()

	w = postJSON(t, router, "/auth/customer/change-password",
		map[string]string{"oldPassword": "tempPass123", "newPassword": "kurz"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/auth/customer/change-password",
		map[string]string{"oldPassword": "falsch", "newPassword": "eigenesPasswort"}, cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/auth/customer/change-password",
		map[string]string{"oldPassword": "tempPass123", "newPassword": "eigenesPasswort"}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh model.Customer
	require.NoError(t, db.First(&fresh, customer.CustomerID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(fresh.PasswordHash), []byte("eigenesPasswort")))

	// der alte Weg über setup-password bleibt für gesetzte Passwörter zu
	w = postJSON(t, router, "/auth/customer/setup-password",
		map[string]string{"email": "max@example.com", "tcNummer": "TC-1", "password": "nochmalanders"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCustomerSubmissionsListsAllForEmail(t *testing.T) {
	router, db := setupTest(t)
	seedCustomer(t, db, "")

	second := model.Submission{Vorname: "Max", Nachname: "Mustermann", Email: "MAX@EXAMPLE.COM", TCNummer: "TC-2", TrackingToken: "ct2"}
	require.NoError(t, db.Create(&second).Error)
	other := model.Submission{Vorname: "Erika", Nachname: "Beispiel", Email: "erika@example.com", TCNummer: "TC-3", TrackingToken: "ct3"}
	require.NoError(t, db.Create(&other).Error)

	login := postJSON(t, router, "/auth/customer/login", map[string]string{"email": "max@example.com", "tcNummer": "TC-1"})
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/customer/submissions", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Submissions []map[string]interface{} `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Submissions, 2, "both submissions of the email, not the other customer's")
}
