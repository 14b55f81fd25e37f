package domain

import "time"

// DefaultAvatar is the placeholder image every account starts with.
const DefaultAvatar = "default.svg"

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"` // bcrypt hashed
	ImageFile string    `db:"image_file"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewUser(username, email, hashedPassword string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		ImageFile: DefaultAvatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasCustomAvatar reports whether the user replaced the placeholder image.
func (u *User) HasCustomAvatar() bool {
	return u.ImageFile != "" && u.ImageFile != DefaultAvatar
}
