package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/goldentaan/taan/internal/params"
)

// Partner is a sample OEM manufacturer listed in the partner directory.
type Partner struct {
	Name           string
	Location       string
	Certifications []string
}

// DefaultPartners are the sample manufacturers shown on a fresh install.
var DefaultPartners = []Partner{
	{Name: "Mae Klong Syrup Works", Location: "Samut Songkhram", Certifications: []string{"GMP", "HACCP"}},
	{Name: "Phetchaburi Palm Foods", Location: "Phetchaburi", Certifications: []string{"GMP", "HACCP", "HALAL"}},
	{Name: "Songkhla Sweetener Co-op", Location: "Songkhla", Certifications: []string{"GMP", "HALAL"}},
	{Name: "Chachoengsao Food Pack", Location: "Chachoengsao", Certifications: []string{"GMP", "ISO 9001"}},
	{Name: "Ratchaburi Natural Products", Location: "Ratchaburi", Certifications: []string{"GMP", "HACCP", "ISO 9001"}},
}

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	Catalogue     *params.Catalogue
	Partners      []Partner
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if cfg.Catalogue != nil {
		if err := ensureAssumptions(ctx, tx, cfg.Catalogue, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for _, p := range cfg.Partners {
		if err := ensurePartner(ctx, tx, p, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureAssumptions inserts catalogue defaults for keys that have no stored value.
func ensureAssumptions(ctx context.Context, tx *sql.Tx, catalogue *params.Catalogue, stats *Stats) error {
	for _, p := range catalogue.Params() {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO assumptions (key, value)
			VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, p.Key, p.Default)
		if err != nil {
			return fmt.Errorf("insert default assumption %s: %w", p.Key, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert default assumption %s: %w", p.Key, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}

func ensurePartner(ctx context.Context, tx *sql.Tx, p Partner, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partners WHERE name = ? LIMIT 1)`, p.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check partner existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO partners (name, location, certifications, active)
		VALUES (?, ?, ?, TRUE)
	`, p.Name, p.Location, strings.Join(p.Certifications, ",")); err != nil {
		return fmt.Errorf("insert partner %s: %w", p.Name, err)
	}
	stats.Inserts++
	return nil
}
