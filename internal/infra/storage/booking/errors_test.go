package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"wrapped serialization failure", fmt.Errorf("txmanager: commit: %w", &pq.Error{Code: "40001"}), true},
		{"repository conflict", fmt.Errorf("%w: Create", ErrConflict), true},
		{"check violation", &pq.Error{Code: "23514"}, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
}

func TestExecErrorClassifies(t *testing.T) {
	err := execError("Create - execute insert", &pq.Error{Code: "23505"})
	assert.ErrorIs(t, err, ErrConflict)

	err = execError("Create - execute insert", errors.New("boom"))
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrConflict)
}
