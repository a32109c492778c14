package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMediaAsset(t *testing.T) {
	valid := &MediaAsset{
		ID:         "m1",
		GemstoneID: "g1",
		Filename:   "hero.jpg",
		StorageKey: "gemstones/g1/m1",
		Status:     MediaStatusPending,
	}
	assert.NoError(t, ValidateMediaAsset(valid))
	assert.Error(t, ValidateMediaAsset(nil))

	tests := []struct {
		name   string
		mutate func(*MediaAsset)
	}{
		{"missing ID", func(m *MediaAsset) { m.ID = "" }},
		{"missing GemstoneID", func(m *MediaAsset) { m.GemstoneID = "" }},
		{"missing Filename", func(m *MediaAsset) { m.Filename = "" }},
		{"missing StorageKey", func(m *MediaAsset) { m.StorageKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := *valid
			tt.mutate(&m)
			assert.Error(t, ValidateMediaAsset(&m))
		})
	}
}

func TestIsValidAnalysisJobStatus(t *testing.T) {
	for _, valid := range []AnalysisJobStatus{
		AnalysisJobStatusPending, AnalysisJobStatusProcessing,
		AnalysisJobStatusCompleted, AnalysisJobStatusFailed,
	} {
		assert.True(t, IsValidAnalysisJobStatus(valid), string(valid))
	}
	assert.False(t, IsValidAnalysisJobStatus("queued"))
	assert.False(t, IsValidAnalysisJobStatus(""))
}
