package repositories

import (
	"database/sql"
	"time"

	"filedrive/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, token_identifier, personal_org_id, name, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.TokenIdentifier, user.PersonalOrgID, user.Name, user.AvatarURL, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`
		SELECT id, token_identifier, personal_org_id, name, avatar_url, created_at, updated_at
		FROM users WHERE id = ?
	`, id)
}

func (r *UserRepository) GetByTokenIdentifier(token string) (*models.User, error) {
	return r.getOne(`
		SELECT id, token_identifier, personal_org_id, name, avatar_url, created_at, updated_at
		FROM users WHERE token_identifier = ?
	`, token)
}

func (r *UserRepository) getOne(query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.TokenIdentifier, &user.PersonalOrgID,
		&user.Name, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadMemberships(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) loadMemberships(user *models.User) error {
	rows, err := r.db.Query(`
		SELECT user_id, org_id, role, created_at, updated_at
		FROM org_memberships WHERE user_id = ? ORDER BY created_at
	`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.OrgMembership
		if err := rows.Scan(&m.UserID, &m.OrgID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}
		user.Memberships = append(user.Memberships, m)
	}
	return rows.Err()
}

func (r *UserRepository) UpdateProfile(id, name, avatarURL string) error {
	_, err := r.db.Exec(`
		UPDATE users SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?
	`, name, avatarURL, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) AddMembership(m *models.OrgMembership) error {
	_, err := r.db.Exec(`
		INSERT INTO org_memberships (user_id, org_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, org_id) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at
	`, m.UserID, m.OrgID, m.Role, m.CreatedAt, m.UpdatedAt)
	return err
}

// UpdateMembershipRole changes an existing membership's role. Returns
// sql.ErrNoRows when the user is not a member of the organization.
func (r *UserRepository) UpdateMembershipRole(userID, orgID, role string) error {
	res, err := r.db.Exec(`
		UPDATE org_memberships SET role = ?, updated_at = ? WHERE user_id = ? AND org_id = ?
	`, role, time.Now().Unix(), userID, orgID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
