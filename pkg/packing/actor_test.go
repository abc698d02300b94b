package packing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// packStore stubs the storage boundary; only PackOrder matters here.
// A non-nil block channel holds PackOrder until it is closed.
type packStore struct {
	mu     sync.Mutex
	packed map[string]bool
	fail   map[string]error
	block  chan struct{}
}

func (s *packStore) PackOrder(_ context.Context, id string) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[id]; ok {
		return err
	}
	if s.packed[id] {
		return lifecycle.ErrAlreadyPacked
	}
	s.packed[id] = true
	return nil
}

func (s *packStore) GetOrder(context.Context, string) (*models.Order, error) {
	return nil, lifecycle.ErrOrderNotFound
}
func (s *packStore) CreateOrder(context.Context, *models.Order) error { return nil }
func (s *packStore) SetStatus(context.Context, string, models.OrderStatus) error {
	return nil
}
func (s *packStore) CancelOrder(context.Context, string, lifecycle.Authorization) error {
	return nil
}
func (s *packStore) GetPromoCode(context.Context, string) (*models.PromoCode, error) {
	return nil, lifecycle.ErrPromoNotFound
}
func (s *packStore) GetProducts(context.Context, []uint) ([]models.Product, error) {
	return nil, nil
}
func (s *packStore) GetGovernorate(context.Context, uint) (*models.Governorate, error) {
	return nil, errors.New("not found")
}

func TestDispatcherPackBatch(t *testing.T) {
	store := &packStore{
		packed: map[string]bool{"already": true},
		fail:   map[string]error{"broken": lifecycle.ErrInsufficientStock},
	}
	svc := lifecycle.NewService(store, nil, nil, zap.NewNop())

	d, err := NewDispatcher(svc, zap.NewNop())
	require.NoError(t, err)
	defer d.Shutdown()

	results, err := d.Pack(context.Background(), []string{"a", "already", "broken", "b"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "already packed")
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
}

func TestDispatcherPackStopsWaitingOnCancel(t *testing.T) {
	release := make(chan struct{})
	store := &packStore{packed: map[string]bool{}, block: release}
	svc := lifecycle.NewService(store, nil, nil, zap.NewNop())

	d, err := NewDispatcher(svc, zap.NewNop())
	require.NoError(t, err)
	defer d.Shutdown()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := d.Pack(ctx, []string{"stuck"})
	assert.Nil(t, results)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcherSerializesBatches(t *testing.T) {
	store := &packStore{packed: map[string]bool{}}
	svc := lifecycle.NewService(store, nil, nil, zap.NewNop())

	d, err := NewDispatcher(svc, zap.NewNop())
	require.NoError(t, err)
	defer d.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := d.Pack(context.Background(), []string{"shared"})
			assert.NoError(t, err)
			assert.Len(t, results, 1)
		}()
	}
	wg.Wait()

	// One batch wins; the rest see the idempotence fence.
	assert.True(t, store.packed["shared"])
}
