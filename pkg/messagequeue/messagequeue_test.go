package messagequeue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRequeue(t *testing.T) {
	transient := errors.New("smtp: connection refused")

	tests := []struct {
		name        string
		err         error
		redelivered bool
		want        bool
	}{
		{name: "success", err: nil, want: false},
		{name: "first transient failure", err: transient, want: true},
		{name: "transient failure after redelivery", err: transient, redelivered: true, want: false},
		{name: "permanent failure", err: Permanent(errors.New("bad json")), want: false},
		{name: "wrapped permanent failure", err: fmt.Errorf("handler: %w", Permanent(transient)), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRequeue(tt.err, tt.redelivered))
		})
	}
}

func TestPermanent_KeepsCause(t *testing.T) {
	cause := errors.New("bad json")
	err := Permanent(cause)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.ErrorIs(t, err, cause)
}
