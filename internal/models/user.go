// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a registered account. Password holds the argon2id hash once
// the user is persisted; it is never serialized.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	DisplayName string    `json:"displayName"`
}
