package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AssociationEvent_Payload(t *testing.T) {
	productID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	storeID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174001")
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		event   AssociationEvent
		subject string
		json    string
	}{
		{
			name:    "added",
			event:   AssociationAdded(productID, storeID, at),
			subject: AssociationAddedSubject,
			json:    `{"product_id":"123e4567-e89b-12d3-a456-426614174000","store_ids":["123e4567-e89b-12d3-a456-426614174001"],"occurred_at":"2025-03-01T10:00:00Z"}`,
		},
		{
			name:    "replaced with empty list",
			event:   AssociationsReplaced(productID, nil, at),
			subject: AssociationReplacedSubject,
			json:    `{"product_id":"123e4567-e89b-12d3-a456-426614174000","store_ids":[],"occurred_at":"2025-03-01T10:00:00Z"}`,
		},
		{
			name:    "removed",
			event:   AssociationRemoved(productID, storeID, at),
			subject: AssociationRemovedSubject,
			json:    `{"product_id":"123e4567-e89b-12d3-a456-426614174000","store_ids":["123e4567-e89b-12d3-a456-426614174001"],"occurred_at":"2025-03-01T10:00:00Z"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			payload, err := tc.event.Payload()
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.subject, tc.event.Subject())
			assert.JSONEq(t, tc.json, string(payload))
		})
	}
}
