// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity and session layer: registration, login,
token refresh, logout, and resolution of bearer tokens into identities.

# Token lifecycle

  - Login issues an access token and a refresh token whose subject is the
    account email. The refresh token is stored on the user document,
    replacing any previous one.
  - Refresh accepts only the stored refresh token and returns a new access
    token. The refresh token itself is not rotated.
  - Logout clears the stored refresh token.
*/
package auth

import (
	"time"

	"github.com/taibuivan/mercado/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the user onto the request-scoped actor.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// TokenPair is the body returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// # Field Identifiers

// Request and document field names in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldRefreshToken = "refresh_token"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
)
