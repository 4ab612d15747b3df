package models

import "time"

type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"-"`
}
