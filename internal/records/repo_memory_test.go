package records

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_SetErrWhileServing(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.Create(ctx, validRecord())
	require.NoError(t, err)

	fault := errors.New("disk I/O error")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = repo.List(ctx, Filter{})
				_ = repo.Ping(ctx)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		repo.SetErr(fault)
		repo.SetErr(nil)
	}
	wg.Wait()

	repo.SetErr(fault)
	assert.ErrorIs(t, repo.Ping(ctx), fault)
	repo.SetErr(nil)
	rows, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
