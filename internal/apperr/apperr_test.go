package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad dates"), KindValidation},
		{"wrapped conflict", fmt.Errorf("create: %w", Conflict("time slot unavailable")), KindConflict},
		{"plain error", errors.New("connection refused"), KindInternal},
		{"internal", Internal(errors.New("boom")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	sentinel := NotFound("booking not found")

	assert.True(t, errors.Is(fmt.Errorf("get: %w", sentinel), sentinel))
	assert.False(t, errors.Is(NotFound("user not found"), sentinel))
	assert.False(t, errors.Is(Validation("booking not found"), sentinel))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(nil, KindInternal))
}
