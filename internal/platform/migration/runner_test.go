// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"postgres://u:p@db:5432/mercado", "pgx5://u:p@db:5432/mercado"},
		{"postgresql://u:p@db/mercado?sslmode=disable", "pgx5://u:p@db/mercado?sslmode=disable"},
		{"pgx5://db/mercado", "pgx5://db/mercado"},
		{"host=db dbname=mercado", "host=db dbname=mercado"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPgx5DSN(tt.input))
		})
	}
}
