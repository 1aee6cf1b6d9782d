// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Validation Limits

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 8
	EmailMaxLength    = 254
)

// # Client Messages

const (
	msgCouldNotValidate = "Could not validate credentials"
	msgUnknownSubject   = "User no longer exists"
	msgRevoked          = "Refresh token has been revoked"
	msgAlreadyExists    = "Email or username is already registered"
)
