// Package postgres is the self-hosted provider mode: identity and note
// storage on a local Postgres instead of the hosted service. Handlers see
// the same interfaces either way.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/utils"
)

type Identity struct {
	db     *pgxpool.Pool
	secret string
	ttl    time.Duration
}

func NewIdentity(db *pgxpool.Pool, secret string, ttl time.Duration) repository.IdentityProvider {
	return &Identity{db: db, secret: secret, ttl: ttl}
}

func (p *Identity) SignUp(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, repository.Validation("email and name are required")
	}
	if len(password) < 6 {
		return nil, repository.Validation("password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var (
		u    models.User
		role string
	)
	err = p.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role, password_h)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, role, created_at`,
		email, name, string(models.RoleUser), hash).
		Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.Validation("User already registered")
		}
		return nil, err
	}
	u.Role = models.ParseRole(role)
	return &u, nil
}

func (p *Identity) SignInWithPassword(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		u    models.User
		role string
		hash string
	)
	err := p.db.QueryRow(ctx, `
		SELECT id, email, name, role, password_h, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &role, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", repository.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPassword(hash, password) {
		return nil, "", repository.ErrInvalidCredentials
	}
	u.Role = models.ParseRole(role)

	tok, err := utils.SignJWT(p.secret, u.ID, string(u.Role), p.ttl)
	if err != nil {
		return nil, "", err
	}
	return &u, tok, nil
}

func (p *Identity) GetUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseJWT(p.secret, token)
	if err != nil {
		return nil, repository.ErrInvalidToken
	}

	// Re-read the row so role changes and deleted accounts take effect
	// without waiting for token expiry.
	var (
		u    models.User
		role string
	)
	err = p.db.QueryRow(ctx, `
		SELECT id, email, name, role, created_at
		FROM users WHERE id=$1`, claims.UserID).
		Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrInvalidToken
		}
		return nil, err
	}
	u.Role = models.ParseRole(role)
	return &u, nil
}
