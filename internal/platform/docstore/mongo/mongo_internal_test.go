// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNormalize(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	document := normalize(bson.M{
		"_id":        "p-1",
		"stock":      int32(12),
		"price":      4.5,
		"created_at": bson.NewDateTimeFromTime(created),
		"category":   nil,
	})

	assert.Equal(t, "p-1", document.ID())
	assert.Equal(t, 12, document.Int("stock"))
	assert.InDelta(t, 4.5, document.Float("price"), 1e-9)
	assert.True(t, created.Equal(document.Time("created_at")))
	assert.Empty(t, document.String("category"))
}
