package users

import (
	"time"

	"pet-adoption-store/internal/ports/auth"
)

// Gender define el género declarado por el usuario.
// @Enum MALE, FEMALE, OTHER
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// User representa una cuenta del marketplace.
// PasswordHash nunca sale por la API; los handlers mapean a DTOs sin ese campo.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Gender       Gender
	Role         auth.Role
	CreatedAt    time.Time
}
