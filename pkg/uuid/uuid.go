// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the document identifiers used across Mercado.

Identifiers are UUID version 7 strings: time-ordered, so stores that sort by
`_id` return documents in creation order.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Entropy failure is unrecoverable.
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
