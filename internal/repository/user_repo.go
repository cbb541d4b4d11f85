package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_api/internal/metrics"
	"user_api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repository needs
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int, upd model.UserUpdate) (int64, error)
	Delete(ctx context.Context, id int) (*model.User, error)
}

type userRepository struct {
	db      DBTX
	metrics *metrics.Metrics
}

// NewUserRepository creates a new UserRepository. m may be nil.
func NewUserRepository(db DBTX, m *metrics.Metrics) UserRepository {
	return &userRepository{db: db, metrics: m}
}

const userColumns = `id, name, email, password, role`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role)
}

// Create inserts a new user into the database and sets user.ID
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (name, email, password, role)
            VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.metrics.ObserveDB("users.create", func() error {
		return r.db.QueryRow(ctx, sql, user.Name, user.Email, user.PasswordHash, user.Role).Scan(&user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves the first user registered with the email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY id LIMIT 1`
	return r.findOne(ctx, "users.find_by_email", sql, email)
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, "users.find_by_id", sql, id)
}

// findOne returns nil, nil when no row matches; absence is for the service layer to interpret
func (r *userRepository) findOne(ctx context.Context, op, sql string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.metrics.ObserveDB(op, func() error {
		err := scanUser(r.db.QueryRow(ctx, sql, arg), user)
		if errors.Is(err, pgx.ErrNoRows) {
			user = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// FindAll retrieves every user in the store's natural order
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := r.metrics.ObserveDB("users.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u model.User
			if err := scanUser(rows, &u); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update overwrites the supplied columns and returns the number of affected rows
func (r *userRepository) Update(ctx context.Context, id int, upd model.UserUpdate) (int64, error) {
	var sets []string
	var args []any
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", upd.Name)
	add("email", upd.Email)
	add("password", upd.PasswordHash)
	add("role", upd.Role)

	if len(sets) == 0 {
		return 0, errors.New("update with no columns")
	}
	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	var affected int64
	err := r.metrics.ObserveDB("users.update", func() error {
		cmdTag, err := r.db.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		affected = cmdTag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update user: %w", err)
	}
	return affected, nil
}

// Delete removes a user and returns the deleted record, or nil if no row matched
func (r *userRepository) Delete(ctx context.Context, id int) (*model.User, error) {
	sql := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	return r.findOne(ctx, "users.delete", sql, id)
}
