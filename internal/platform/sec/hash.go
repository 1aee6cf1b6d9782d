// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// # Password Limits

const (
	// MaxPasswordBytes is the bcrypt input ceiling. Longer inputs are truncated.
	MaxPasswordBytes = 72

	// fallbackPasswordRunes is used when byte truncation leaves no valid text.
	fallbackPasswordRunes = 50
)

// PasswordHasher performs salted one-way hashing of credentials with bcrypt.
//
// The zero value is not usable; construct it with [NewPasswordHasher].
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt work factor.
// Values outside the bcrypt range fall back to [bcrypt.DefaultCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash normalizes the plain-text password and hashes it using bcrypt.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	normalized := NormalizePassword(plainTextPassword)

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(normalized), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with a stored bcrypt digest.
//
// A mismatch and a malformed digest both report false.
func (hasher *PasswordHasher) Verify(plainTextPassword, existingHash string) bool {
	normalized := NormalizePassword(plainTextPassword)
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(normalized))
	return err == nil
}

// NormalizePassword caps the password at [MaxPasswordBytes] of UTF-8.
//
// # Rules
//
//  1. Inputs within the limit are returned unchanged.
//  2. Longer inputs are cut at byte 72 and any partial or invalid UTF-8
//     sequence left in that prefix is dropped.
//  3. If nothing valid remains, the first 50 characters of the input are used.
func NormalizePassword(plainTextPassword string) string {
	if len(plainTextPassword) <= MaxPasswordBytes {
		return plainTextPassword
	}

	truncated := strings.ToValidUTF8(plainTextPassword[:MaxPasswordBytes], "")
	if truncated != "" {
		return truncated
	}

	return firstRunes(plainTextPassword, fallbackPasswordRunes)
}

// firstRunes returns the byte prefix of s spanning its first n runes.
// Invalid bytes count as one rune each, so the result never grows past n*4 bytes.
func firstRunes(s string, n int) string {
	offset := 0
	for count := 0; count < n && offset < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return s[:offset]
}
