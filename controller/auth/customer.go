package auth

import (
	"net/http"

	"maengelportal/dto"
	"maengelportal/middleware"
	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func CustomerAuthController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/auth/customer")
	{
		routes.POST("/login", func(c *gin.Context) {
			CustomerLogin(c, db)
		})
		routes.DELETE("/login", func(c *gin.Context) {
			CustomerLogout(c)
		})
		routes.GET("/verify", middleware.CustomerSessionMiddleware(db), func(c *gin.Context) {
			CustomerVerify(c)
		})
		routes.POST("/setup-password", func(c *gin.Context) {
			CustomerSetupPassword(c, db)
		})
		routes.POST("/change-password", middleware.CustomerSessionMiddleware(db), func(c *gin.Context) {
			CustomerChangePassword(c, db)
		})
		routes.GET("/submissions", middleware.CustomerSessionMiddleware(db), func(c *gin.Context) {
			CustomerSubmissions(c, db)
		})
	}
}

// findCustomer matches email case-insensitively, the TC-Nummer exactly.
func findCustomer(db *gorm.DB, email, tcNummer string) (*model.Customer, error) {
	var customer model.Customer
	err := db.Where("LOWER(email) = LOWER(?) AND tc_nummer = ?", email, tcNummer).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func CustomerLogin(c *gin.Context, db *gorm.DB) {
	var req dto.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}

	customer, err := findCustomer(db, req.Email, req.TCNummer)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
		return
	}

	if customer.HasPassword() {
		if req.Password == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Passwort erforderlich", "requiresPassword": true})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültige Anmeldedaten"})
			return
		}
	}

	if err := middleware.SetCustomerSession(c, customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Anmeldung fehlgeschlagen"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":                 customer.Email,
		"tcNummer":              customer.TCNummer,
		"requiresPasswordSetup": !customer.HasPassword(),
	})
}

func CustomerLogout(c *gin.Context) {
	middleware.ClearCustomerSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Abgemeldet"})
}

func CustomerVerify(c *gin.Context) {
	customer := middleware.CurrentCustomer(c)
	c.JSON(http.StatusOK, gin.H{
		"email":    customer.Email,
		"tcNummer": customer.TCNummer,
	})
}

// CustomerSetupPassword sets the initial password. Ein bereits gesetztes
// Passwort wird hier nie überschrieben.
func CustomerSetupPassword(c *gin.Context, db *gorm.DB) {
	var req dto.CustomerSetupPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Eingabe"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das Passwort muss mindestens 8 Zeichen lang sein"})
		return
	}

	customer, err := findCustomer(db, req.Email, req.TCNummer)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kein Konto zu diesen Daten gefunden"})
		return
	}
	if customer.HasPassword() {
		c.JSON(http.StatusConflict, gin.H{"error": "Für dieses Konto ist bereits ein Passwort gesetzt"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht gesetzt werden"})
		return
	}
	if err := db.Model(&model.Customer{}).Where("customer_id = ?", customer.CustomerID).
		Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwort konnte nicht gesetzt werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passwort gesetzt"})
}

// CustomerChangePassword replaces the temp password from the confirmation
// mail (or any later one) against the old password.
func CustomerChangePassword(c *gin.Context, db *gorm.DB) {
	customer := middleware.CurrentCustomer(c)

	var req dto.CustomerChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Altes und neues Passwort sind erforderlich"})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Das Passwort muss mindestens 8 Zeichen lang sein"})
		return
	}
	if !customer.HasPassword() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Für dieses Konto ist noch kein Passwort gesetzt"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Das aktuelle Passwort ist falsch"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwortänderung fehlgeschlagen"})
		return
	}
	if err := db.Model(&model.Customer{}).Where("customer_id = ?", customer.CustomerID).
		Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Passwortänderung fehlgeschlagen"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passwort geändert"})
}

// CustomerSubmissions lists every submission filed under the session email.
func CustomerSubmissions(c *gin.Context, db *gorm.DB) {
	customer := middleware.CurrentCustomer(c)

	var submissions []model.Submission
	err := db.Preload("Files").
		Where("LOWER(email) = LOWER(?)", customer.Email).
		Order("timestamp DESC").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meldungen konnten nicht geladen werden"})
		return
	}

	results := make([]gin.H, 0, len(submissions))
	for i := range submissions {
		s := &submissions[i]
		files := make([]gin.H, 0, len(s.Files))
		for _, f := range s.Files {
			files = append(files, gin.H{"name": f.Name, "url": f.URL})
		}
		results = append(results, gin.H{
			"id":           s.SubmissionID,
			"timestamp":    s.Timestamp,
			"tcNummer":     s.TCNummer,
			"beschreibung": s.Beschreibung,
			"status":       s.Status.Display(),
			"erledigtAm":   s.ErledigtAm,
			"files":        files,
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": results})
}
