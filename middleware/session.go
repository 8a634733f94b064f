package middleware

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"maengelportal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	AdminSessionCookie    = "admin_session"
	CustomerSessionCookie = "customer_session"

	AdminSessionMaxAge    = 8 * time.Hour
	CustomerSessionMaxAge = 7 * 24 * time.Hour
)

func sessionSecret() []byte {
	return []byte(os.Getenv("SESSION_SECRET_KEY"))
}

func secureCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}

// signSession is the one signing primitive both session types share.
// Payloads unterscheiden sich, Signatur und Prüfung nicht.
func signSession(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret())
}

func parseSession(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sessionSecret(), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}

// SetAdminSession signs and sets the admin_session cookie (8h).
func SetAdminSession(c *gin.Context, admin *model.AdminUser) error {
	claims := &model.AdminClaims{
		AdminID:  admin.AdminID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "maengelportal",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AdminSessionMaxAge)),
		},
	}
	signed, err := signSession(claims)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminSessionCookie, signed, int(AdminSessionMaxAge.Seconds()), "/", "", secureCookies(), true)
	return nil
}

func ClearAdminSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminSessionCookie, "", -1, "/", "", secureCookies(), true)
}

// SetCustomerSession signs and sets the customer_session cookie (7d).
func SetCustomerSession(c *gin.Context, customer *model.Customer) error {
	claims := &model.CustomerClaims{
		CustomerID:   customer.CustomerID,
		Email:        customer.Email,
		TCNummer:     customer.TCNummer,
		SubmissionID: customer.SubmissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "maengelportal",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(CustomerSessionMaxAge)),
		},
	}
	signed, err := signSession(claims)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CustomerSessionCookie, signed, int(CustomerSessionMaxAge.Seconds()), "/", "", secureCookies(), true)
	return nil
}

func ClearCustomerSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CustomerSessionCookie, "", -1, "/", "", secureCookies(), true)
}

// AdminSessionMiddleware validates the admin cookie and re-fetches the admin
// row, so a deleted admin is rejected even with a live cookie.
func AdminSessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(AdminSessionCookie)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Nicht authentifiziert"})
			return
		}

		var claims model.AdminClaims
		if err := parseSession(cookie, &claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sitzung ungültig"})
			return
		}

		var admin model.AdminUser
		if err := db.First(&admin, claims.AdminID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin nicht gefunden"})
			return
		}

		c.Set("admin", &admin)
		c.Next()
	}
}

// RequireRole fails with 403 when the session role ranks below min.
func RequireRole(min model.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Nicht authentifiziert"})
			return
		}
		if !admin.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Keine Berechtigung"})
			return
		}
		c.Next()
	}
}

// RequirePasswordChanged blocks mutating admin routes while the
// must-change-password flag is set. Die Passwort-Änderungsroute selbst
// bleibt erreichbar.
func RequirePasswordChanged() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin != nil && admin.MustChangePassword {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Bitte ändern Sie zuerst Ihr Passwort"})
			return
		}
		c.Next()
	}
}

// CustomerSessionMiddleware validates the customer cookie and re-fetches the
// customer row.
func CustomerSessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CustomerSessionCookie)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Nicht authentifiziert"})
			return
		}

		var claims model.CustomerClaims
		if err := parseSession(cookie, &claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sitzung ungültig"})
			return
		}

		var customer model.Customer
		if err := db.First(&customer, claims.CustomerID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Kunde nicht gefunden"})
			return
		}

		c.Set("customer", &customer)
		c.Next()
	}
}

// CurrentAdmin returns the admin attached by AdminSessionMiddleware, or nil.
func CurrentAdmin(c *gin.Context) *model.AdminUser {
	if v, exists := c.Get("admin"); exists {
		if admin, ok := v.(*model.AdminUser); ok {
			return admin
		}
	}
	return nil
}

// CurrentCustomer returns the customer attached by CustomerSessionMiddleware, or nil.
func CurrentCustomer(c *gin.Context) *model.Customer {
	if v, exists := c.Get("customer"); exists {
		if customer, ok := v.(*model.Customer); ok {
			return customer
		}
	}
	return nil
}
