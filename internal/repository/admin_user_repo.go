package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

type AdminUserRepository struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, first_name, last_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Status).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateEmail
	}
	return err
}

func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, first_name, last_name, status, last_login_at, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepository) GetByID(id int) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, first_name, last_name, status, last_login_at, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll returns the active admin accounts ordered by email. Deactivated
// rows stay reachable through GetByID only.
func (r *AdminUserRepository) GetAll() ([]models.AdminUser, error) {
	var users []models.AdminUser
	err := r.db.Select(&users, `
		SELECT id, email, password_hash, first_name, last_name, status, last_login_at, created_at, updated_at
		FROM admin_users
		WHERE status = $1
		ORDER BY email ASC
	`, models.UserStatusActive)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *AdminUserRepository) Update(user *models.AdminUser) error {
	query := `
		UPDATE admin_users
		SET email = $2, first_name = $3, last_name = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, user.ID, user.Email, user.FirstName, user.LastName).
		Scan(&user.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateEmail
	}
	return err
}

func (r *AdminUserRepository) UpdatePassword(id int, passwordHash string) error {
	const q = `UPDATE admin_users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, passwordHash)
	return err
}

// UpdateLastLogin stamps a successful login.
func (r *AdminUserRepository) UpdateLastLogin(id int) error {
	const q = `UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// SetStatus changes the account lifecycle state.
func (r *AdminUserRepository) SetStatus(id int, status models.UserStatus) error {
	const q = `UPDATE admin_users SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, status)
	return err
}
