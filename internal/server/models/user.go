package models

import "time"

// User is an account that can bear or forge rings. Password holds the bcrypt
// hash and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
