package resman_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	resman "github.com/krisalay/resource-manager"
)

func BenchmarkAcquireHit(b *testing.B) {
	ctx := context.Background()
	m := resman.New(resman.Config{CleanupInterval: time.Hour})
	defer m.Shutdown(ctx)

	build := func(ctx context.Context, key string) (any, error) { return &token{value: key}, nil }
	if _, err := m.Acquire(ctx, "hot", "client", build, nil); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.Acquire(ctx, "hot", "client", build, nil); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkAcquireMiss(b *testing.B) {
	ctx := context.Background()
	m := resman.New(resman.Config{CleanupInterval: time.Hour})
	defer m.Shutdown(ctx)

	build := func(ctx context.Context, key string) (any, error) { return &token{value: key}, nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i)
		if _, err := m.Acquire(ctx, key, "client", build, nil); err != nil {
			b.Fatal(err)
		}
	}
}
