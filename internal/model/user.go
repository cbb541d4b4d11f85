package model

const RoleUser = "user"

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose password hash in JSON responses
	Role         string `json:"role"`
}

// CreateUserRequest is the registration payload
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is used for updating a user. Pointers allow partial updates;
// a supplied field must not be blank.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UserUpdate is the set of columns the store overwrites. Password is already hashed.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
}

// IsEmpty reports whether no column would be touched
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil && u.Role == nil
}
