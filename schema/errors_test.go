package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorKinds tests kind classification and message content.
func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
		contains string
	}{
		{
			name:     "validation",
			err:      NewValidationError("forecast_days must be between 1 and %d, got %d", MaxHorizonDays, 31),
			wantKind: ValidationKind,
			contains: "between 1 and 30",
		},
		{
			name:     "unknown method",
			err:      NewUnknownMethodError("prophet"),
			wantKind: UnknownMethodKind,
			contains: `"prophet"`,
		},
		{
			name:     "insufficient data",
			err:      NewInsufficientDataError(5, MinForecastPoints),
			wantKind: InsufficientDataKind,
			contains: "5 observations, need at least 7",
		},
		{
			name:     "persistence",
			err:      NewPersistenceError("append forecast", errors.New("disk full")),
			wantKind: PersistenceKind,
			contains: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
			assert.True(t, IsKind(tt.err, tt.wantKind))
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

// TestKindOfWrapped tests that kinds survive fmt.Errorf wrapping.
func TestKindOfWrapped(t *testing.T) {
	inner := NewInsufficientDataError(3, MinForecastPoints)
	wrapped := fmt.Errorf("loading series: %w", inner)
	assert.Equal(t, InsufficientDataKind, KindOf(wrapped))
}

// TestKindOfPlainError tests that unclassified errors return an empty kind.
func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, ValidationKind))
}
