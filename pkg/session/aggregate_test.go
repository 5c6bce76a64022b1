package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/api"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		records    []api.SyncStatusRecord
		expSuccess bool
		expMessage string
	}{
		{
			name:       "Empty",
			records:    nil,
			expSuccess: true,
		},
		{
			name: "AllSuccess",
			records: []api.SyncStatusRecord{
				{Path: "/mnt/data", Status: api.SyncSuccess},
				{Path: "/mnt/cache", Status: api.SyncSuccess},
			},
			expSuccess: true,
		},
		{
			name: "OneFailed",
			records: []api.SyncStatusRecord{
				{Path: "/mnt/data", Status: api.SyncSuccess},
				{Path: "/mnt/cache", Status: api.SyncFailed, ErrorMessage: "disk full"},
			},
			expSuccess: false,
			expMessage: "/mnt/cache: disk full",
		},
		{
			name: "MultipleFailedInInputOrder",
			records: []api.SyncStatusRecord{
				{Path: "/mnt/b", Status: api.SyncFailed, ErrorMessage: "permission denied"},
				{Path: "/mnt/a", Status: api.SyncFailed, ErrorMessage: "disk full"},
			},
			expSuccess: false,
			expMessage: "/mnt/b: permission denied; /mnt/a: disk full",
		},
		{
			name: "StillPendingIsNotSuccess",
			records: []api.SyncStatusRecord{
				{Path: "/mnt/data", Status: api.SyncRunning},
			},
			expSuccess: false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			result := Aggregate(api.SyncStatus{
				RequestID: "req-1",
				Records:   test.records,
			})
			assert.Equal(t, test.expSuccess, result.Success)
			assert.Equal(t, test.expMessage, result.ErrorMessage)
			assert.Equal(t, "req-1", result.RequestID)
		})
	}
}
