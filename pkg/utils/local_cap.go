package utils

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// LocalCap is an in-process concurrency cap, used when Redis is not configured.
type LocalCap struct {
	sem *semaphore.Weighted
}

func NewLocalCap(limit int) (*LocalCap, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	return &LocalCap{sem: semaphore.NewWeighted(int64(limit))}, nil
}

func (c *LocalCap) Acquire(_ context.Context) (bool, error) {
	return c.sem.TryAcquire(1), nil
}

func (c *LocalCap) Release(_ context.Context) error {
	c.sem.Release(1)
	return nil
}
