package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/reelorder/internal/logging"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 3 * * *", false},
		{"*/15 * * * *", false},
		{"not a cron", true},
		{"61 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := Validate(tt.expr)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestRepeat_RunOnStart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var runs atomic.Int32
	err := Repeat(ctx, "0 0 1 1 *", true, logging.Nop(), func(context.Context) error {
		runs.Add(1)
		cancel()
		return errors.New("logged, not returned")
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), runs.Load())
}

func TestRepeat_InvalidExpr(t *testing.T) {
	err := Repeat(context.Background(), "nope", false, logging.Nop(), func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRepeat_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Repeat(ctx, "0 0 1 1 *", false, logging.Nop(), func(context.Context) error { return nil })
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Repeat did not return after cancel")
	}
}
