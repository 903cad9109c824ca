package domain

import "time"

// Role is the kind of account a profile belongs to.
type Role string

const (
	RoleResident Role = "resident"
	RoleOfficial Role = "official"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleResident || r == RoleOfficial
}

// Identity is the subject of an authenticated session as reported by the
// identity provider.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserProfile is the application-level record for an identity. It is written
// once at registration and read-only afterwards.
type UserProfile struct {
	UID    string `json:"uid" bson:"_id"`
	Email  string `json:"email" bson:"email"`
	Role   Role   `json:"role" bson:"role"`
	AreaID string `json:"area_id" bson:"area_id"`
}

// Account is a credential record held by the identity backend.
type Account struct {
	UID          string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}
