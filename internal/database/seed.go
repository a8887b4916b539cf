package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAuthor makes sure the user that demo documents are attributed to
// exists and returns its ID. It is a no-op if a user with the email exists.
func SeedAuthor(db *sql.DB, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(`SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err == nil {
		slog.Info("author already seeded, skipping", "email", email)
		return id, nil
	}
	if err != sql.ErrNoRows {
		return uuid.Nil, fmt.Errorf("seed check author: %w", err)
	}

	// Hash the default password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed bcrypt: %w", err)
	}

	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, email, string(hash), "Admin", "admin").Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed insert author: %w", err)
	}

	slog.Info("database seeded with default author",
		"email", email,
		"password", "admin",
	)

	return id, nil
}
