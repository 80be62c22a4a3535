package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/divina/log"
	"github.com/kochabx/divina/metrics"
)

const tagCustomers Tag = "Customers"

type counter struct {
	n atomic.Int32
}

func (c *counter) fetch(ctx context.Context) ([]string, error) {
	n := c.n.Add(1)
	return []string{"ana", "maria", string(rune('0' + n))}, nil
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	opts = append([]Option{WithLogger(log.Nop())}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewKey(t *testing.T) {
	assert.Equal(t, Key(`customers({"limit":10,"page":1})`), NewKey("customers", map[string]int{"page": 1, "limit": 10}))
	assert.Equal(t, Key("me(undefined)"), NewKey("me", nil))
	assert.Equal(t, Key("user(5)"), NewKey("user", 5))
}

func TestQueryHit(t *testing.T) {
	m := metrics.NewCache(prometheus.NewRegistry())
	c := newTestCache(t, WithMetrics(m))
	var cnt counter
	key := NewKey("customers", 1)

	first, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)
	second, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, cnt.n.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("miss")))

	st, ok := c.State(key)
	require.True(t, ok)
	assert.Equal(t, StatusFulfilled, st.Status)
	assert.False(t, st.Stale)
	assert.Equal(t, []Tag{tagCustomers}, st.Tags)
}

func TestQueryDedup(t *testing.T) {
	c := newTestCache(t)
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Query(context.Background(), c, "answer", nil, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestQueryError(t *testing.T) {
	c := newTestCache(t)
	boom := errors.New("boom")
	_, err := Query(context.Background(), c, "k", nil, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	st, _ := c.State("k")
	assert.Equal(t, StatusRejected, st.Status)
	assert.ErrorIs(t, st.Err, boom)

	v, err := Query(context.Background(), c, "k", nil, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestTypeMismatch(t *testing.T) {
	c := newTestCache(t)
	_, err := Query(context.Background(), c, "k", nil, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = Query(context.Background(), c, "k", nil, func(context.Context) (string, error) { return "x", nil })
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestInvalidateUnsubscribed(t *testing.T) {
	c := newTestCache(t)
	var cnt counter
	key := NewKey("customers", nil)

	_, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)

	c.Invalidate("Users")
	st, _ := c.State(key)
	assert.False(t, st.Stale)

	c.Invalidate(tagCustomers)
	st, _ = c.State(key)
	assert.True(t, st.Stale)
	assert.EqualValues(t, 1, cnt.n.Load())

	v, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)
	assert.Equal(t, "2", v[2])
	assert.EqualValues(t, 2, cnt.n.Load())
}

func TestInvalidateSubscribed(t *testing.T) {
	m := metrics.NewCache(prometheus.NewRegistry())
	c := newTestCache(t, WithMetrics(m))
	var cnt counter
	key := NewKey("customers", nil)

	unsubscribe := c.Subscribe(key)
	defer unsubscribe()
	_, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)

	c.Invalidate(tagCustomers)
	require.Eventually(t, func() bool {
		st, _ := c.State(key)
		return cnt.n.Load() == 2 && !st.Stale && !st.Fetching
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invalidations.WithLabelValues(string(tagCustomers))))

	_, err = Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt.n.Load())
}

func TestInvalidateDuringFetch(t *testing.T) {
	c := newTestCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Query(context.Background(), c, "k", []Tag{tagCustomers}, fetch)
	}()
	<-started
	c.Invalidate(tagCustomers)
	close(release)
	<-done

	st, _ := c.State("k")
	assert.Equal(t, StatusFulfilled, st.Status)
	assert.True(t, st.Stale)
}

func TestResetDuringFetch(t *testing.T) {
	c := newTestCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		close(started)
		<-release
		return "old session", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Query(context.Background(), c, "me", nil, fetch)
	}()
	<-started
	c.Reset()
	close(release)
	<-done

	_, ok := c.State("me")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCallerCancel(t *testing.T) {
	c := newTestCache(t)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Query(ctx, c, "slow", nil, func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGarbageCollection(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newTestCache(t, WithClock(clock), WithKeepUnusedDataFor(time.Minute))
	var cnt counter

	_, err := Query(context.Background(), c, "unused", nil, cnt.fetch)
	require.NoError(t, err)

	unsubscribe := c.Subscribe("kept")
	_, err = Query(context.Background(), c, "kept", nil, cnt.fetch)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	assert.Equal(t, 2, c.Len())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := c.State("kept")
	assert.True(t, ok)

	unsubscribe()
	unsubscribe()
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMutate(t *testing.T) {
	c := newTestCache(t)
	var cnt counter
	key := NewKey("customers", nil)
	_, err := Query(context.Background(), c, key, []Tag{tagCustomers}, cnt.fetch)
	require.NoError(t, err)

	_, err = Mutate(context.Background(), c, []Tag{tagCustomers}, func(context.Context) (int, error) {
		return 0, errors.New("rejected")
	})
	require.Error(t, err)
	st, _ := c.State(key)
	assert.False(t, st.Stale)

	id, err := Mutate(context.Background(), c, []Tag{tagCustomers}, func(context.Context) (int, error) {
		return 9, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 9, id)
	st, _ = c.State(key)
	assert.True(t, st.Stale)
}

func TestRefetch(t *testing.T) {
	c := newTestCache(t)
	var cnt counter

	_, err := c.Refetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Query(context.Background(), c, "k", nil, cnt.fetch)
	require.NoError(t, err)
	v, err := c.Refetch(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "2", v.([]string)[2])
}

func TestClosed(t *testing.T) {
	c, err := New(WithLogger(log.Nop()))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = Query(context.Background(), c, "k", nil, func(context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrClosed)
}
