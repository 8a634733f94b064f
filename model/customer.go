package model

import "time"

// Customer is the optional password-bearing account attached 1:1 to a
// submission. Login über E-Mail + TC-Nummer funktioniert auch ohne Passwort,
// solange keines gesetzt wurde.
type Customer struct {
	CustomerID   uint      `gorm:"column:customer_id;primaryKey;autoIncrement"`
	SubmissionID uint      `gorm:"column:submission_id;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;type:varchar(255);not null"`
	TCNummer     string    `gorm:"column:tc_nummer;type:varchar(50);not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`

	Submission Submission `gorm:"foreignKey:SubmissionID;references:SubmissionID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) HasPassword() bool {
	return len(c.PasswordHash) > 0
}
