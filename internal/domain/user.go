package domain

import "time"

// TokenPurposeAuth tags session tokens. Any future token class (e.g. password
// reset) gets its own purpose and must never pass the auth gate.
const TokenPurposeAuth = "auth"

// User is an account record. The password is stored only as a bcrypt hash,
// and neither the hash nor the token list is ever serialized to clients.
type User struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Tokens       []AuthToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

// AuthToken is one issued session token. A user may hold several at once
// (multi-device sessions); logout removes exactly one row.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"-"`
	Purpose   string    `gorm:"not null" json:"purpose"`
	Value     string    `gorm:"not null;index" json:"value"`
	CreatedAt time.Time `json:"-"`
}
