// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	requestutil "github.com/taibuivan/mercado/internal/platform/request"
)

/*
TestBearerToken covers the header shapes accepted and rejected by the extractor.
*/
func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"absent", "", "", true},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase_scheme", "bearer abc", "abc", true},
		{"wrong_scheme", "Basic dXNlcjpwYXNz", "", false},
		{"missing_token", "Bearer ", "", false},
		{"no_separator", "Bearerabc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			token, ok := requestutil.BearerToken(request)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
