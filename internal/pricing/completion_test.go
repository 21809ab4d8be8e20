package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

func TestEstimateCompletionDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		items    []model.LineItem
		expedite model.ExpediteType
		wantDays int
	}{
		{
			name:     "standard turnaround is two days",
			items:    []model.LineItem{{CategoryCode: "чистка одягу"}},
			expedite: model.ExpediteStandard,
			wantDays: 2,
		},
		{
			name:     "leather stretches to fourteen days",
			items:    []model.LineItem{{CategoryCode: "чистка одягу"}, {CategoryCode: "чистка шкіряних виробів"}},
			expedite: model.ExpediteStandard,
			wantDays: 14,
		},
		{
			name:     "sheepskin coats count as leather",
			items:    []model.LineItem{{CategoryCode: "чистка дублянок"}},
			expedite: model.ExpediteStandard,
			wantDays: 14,
		},
		{
			name:     "sheepskin singular spelling counts as leather",
			items:    []model.LineItem{{CategoryCode: "Дублянка, чистка"}},
			expedite: model.ExpediteStandard,
			wantDays: 14,
		},
		{
			name:     "express 48h overrides even leather",
			items:    []model.LineItem{{CategoryCode: "чистка шкіри"}},
			expedite: model.ExpediteExpress48,
			wantDays: 2,
		},
		{
			name:     "express 24h is next day",
			items:    []model.LineItem{{CategoryCode: "чистка одягу"}},
			expedite: model.ExpediteExpress24,
			wantDays: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCompletionDate(tt.items, tt.expedite, start)
			assert.Equal(t, start.AddDate(0, 0, tt.wantDays), got)
		})
	}
}
