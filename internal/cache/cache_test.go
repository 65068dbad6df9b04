package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := New(nil, zap.NewNop())
	if c.Enabled() {
		t.Fatal("expected disabled cache for nil client")
	}
	v := NewView[string](c, "projects", time.Minute)
	ctx := context.Background()

	v.Set(ctx, "all", "value")
	if _, ok := v.Get(ctx, "all"); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	// Nothing listens on this port; every call fails fast.
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := New(rdb, zap.NewNop())
	v := NewView[int](c, "txn", time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		v.Set(ctx, "1", 42)
		if _, ok := v.Get(ctx, "1"); ok {
			t.Fatal("unexpected hit from unreachable redis")
		}
	}
}

func TestViewKeyNamespacing(t *testing.T) {
	v := NewView[string](Disabled(), "transactions", time.Minute)
	if got := v.key("7"); got != "transactions:7" {
		t.Errorf("key = %q, want transactions:7", got)
	}
}

func TestLoadCollapsesConcurrentMisses(t *testing.T) {
	v := NewView[int](Disabled(), "transactions", time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := v.Load(context.Background(), "7", func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 7, nil
			})
			if err != nil {
				t.Error(err)
			}
			results[i] = n
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("load called %d times, want 1", calls.Load())
	}
	for i, n := range results {
		if n != 7 {
			t.Errorf("results[%d] = %d", i, n)
		}
	}
}

func TestLoadReturnsLoaderError(t *testing.T) {
	v := NewView[string](Disabled(), "projects", time.Minute)
	boom := errors.New("boom")
	_, err := v.Load(context.Background(), "all", func(context.Context) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestLoadIgnoresCancelledPeer(t *testing.T) {
	v := NewView[string](Disabled(), "projects", time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return "ok", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := v.Load(ctxA, "all", load)
		errA <- err
	}()
	<-started

	type result struct {
		val string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		val, err := v.Load(context.Background(), "all", load)
		resB <- result{val, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}
	close(release)

	got := <-resB
	if got.err != nil || got.val != "ok" {
		t.Errorf("live caller = %q, %v; want ok", got.val, got.err)
	}
	if calls.Load() != 1 {
		t.Errorf("load called %d times, want 1", calls.Load())
	}
}
