package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims is the signed payload of the admin_session cookie.
type AdminClaims struct {
	AdminID  uint      `json:"adminId"`
	Username string    `json:"username"`
	Role     AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// CustomerClaims is the signed payload of the customer_session cookie.
type CustomerClaims struct {
	CustomerID   uint   `json:"customerId"`
	Email        string `json:"email"`
	TCNummer     string `json:"tcNummer"`
	SubmissionID uint   `json:"submissionId"`
	jwt.RegisteredClaims
}
