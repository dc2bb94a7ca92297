package model

type UserAccount struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"createdAt"`
	LastLogin    int64  `db:"last_login" json:"lastLogin"`
}

type CreateUserParams struct {
	Username     string
	PasswordHash string
	CreatedAt    int64
}
