package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gift-service/internal/dto"
	"gift-service/internal/model"
	"gift-service/internal/port"
	"gift-service/internal/storage/memstore"

	"go.uber.org/zap"
)

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(memberID uint) (string, error) {
	return fmt.Sprintf("token-%d", memberID), nil
}

type recordingQueue struct {
	mu     sync.Mutex
	events []port.OrderPlaced
}

func (q *recordingQueue) Enqueue(event port.OrderPlaced) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
	return true
}

func (q *recordingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*dto.OrderResult
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*dto.OrderResult)}
}

func cacheKey(memberID, orderID uint) string {
	return fmt.Sprintf("%d:%d", memberID, orderID)
}

func (c *fakeCache) Get(ctx context.Context, memberID, orderID uint) (*dto.OrderResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.entries[cacheKey(memberID, orderID)], nil
}

func (c *fakeCache) Set(ctx context.Context, memberID uint, order *dto.OrderResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(memberID, order.ID)] = order
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, memberID, orderID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(memberID, orderID))
	return nil
}

type catalog struct {
	store   *memstore.Store
	member  *model.Member
	product *model.Product
	option  *model.Option
}

func newCatalog(t *testing.T, quantity int) *catalog {
	t.Helper()
	ctx := context.Background()
	store := memstore.New(time.Second)

	member := &model.Member{Name: "kim", Email: "kim@example.com", Password: "hash"}
	if err := store.Members().Create(ctx, member); err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	product := &model.Product{Name: "americano", Price: 4500}
	if err := store.Products().Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	option := &model.Option{ProductID: product.ID, Name: "tall", Quantity: quantity}
	if err := store.Options().Create(ctx, option); err != nil {
		t.Fatalf("failed to create option: %v", err)
	}
	return &catalog{store: store, member: member, product: product, option: option}
}

func (c *catalog) addMember(t *testing.T, email string) *model.Member {
	t.Helper()
	member := &model.Member{Name: email, Email: email, Password: "hash"}
	if err := c.store.Members().Create(context.Background(), member); err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return member
}

func (c *catalog) remaining(t *testing.T) int {
	t.Helper()
	option, err := c.store.Options().FindByID(context.Background(), c.option.ID)
	if err != nil {
		t.Fatalf("failed to load option: %v", err)
	}
	return option.Quantity
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
