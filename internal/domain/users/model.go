package users

import (
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/ports/auth"
)

type User struct {
	ID    string
	Email string
	Name  string
	Role  auth.Role

	// Hash bcrypt; nunca sale en respuestas.
	PasswordHash string

	CreatedAt time.Time
}
