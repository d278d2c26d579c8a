package samples

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/moonunit/internal/assert"
	"github.com/roach88/moonunit/internal/suite"
)

// ErrOutOfStock is returned when a reservation exceeds the stock on hand.
var ErrOutOfStock = errors.New("out of stock")

// StockError reports a failed reservation.
type StockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("sku %s: requested %d, %d available", e.SKU, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrOutOfStock }

// Store is an in-memory stock ledger.
type Store struct {
	stock  map[string]int
	closed bool
}

// NewStore creates a store with the given stock.
func NewStore(stock map[string]int) *Store {
	return &Store{stock: stock}
}

// Reserve takes n units of sku out of stock.
func (s *Store) Reserve(sku string, n int) error {
	if s.closed {
		return errors.New("store closed")
	}
	if s.stock[sku] < n {
		return &StockError{SKU: sku, Requested: n, Available: s.stock[sku]}
	}
	s.stock[sku] -= n
	return nil
}

// SKUs returns the stocked SKUs in sorted order.
func (s *Store) SKUs() []string {
	var skus []string
	for sku, n := range s.stock {
		if n > 0 {
			skus = append(skus, sku)
		}
	}
	slices.Sort(skus)
	return skus
}

// Close releases the store. Reservations fail afterwards.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

// InventorySuite's exported methods are discovered by reflection.
type InventorySuite struct {
	store *Store
}

// Close closes the store of the instance; the engine calls it after each test.
func (s *InventorySuite) Close() error {
	return s.store.Close()
}

func (s *InventorySuite) ListsStockedSKUs() {
	assert.Equal([]string{"apple", "pear"}, s.store.SKUs())
	assert.Contains("pear", s.store.SKUs())
	assert.DoesNotContain("plum", s.store.SKUs())
}

func (s *InventorySuite) ReservesStock() error {
	if err := s.store.Reserve("apple", 3); err != nil {
		return err
	}
	assert.Equal(2, s.store.stock["apple"])
	return nil
}

func (s *InventorySuite) RejectsOverdraw() {
	se := assert.Throws[*StockError](func() error {
		return s.store.Reserve("pear", 10)
	})
	assert.Equal("pear", se.SKU)
	assert.True(errors.Is(se, ErrOutOfStock))
	assert.Match(`^sku pear: requested \d+`, se.Error())
}

func (s *InventorySuite) HonoursContext(ctx context.Context) error {
	assert.NotNull(ctx)
	return ctx.Err()
}

func (s *InventorySuite) ReservationIsolated() {
	// Each test gets a fresh store, so the reservation in ReservesStock is
	// not visible here.
	assert.Equal(5, s.store.stock["apple"])
}

func (s *InventorySuite) NormalisesNames() {
	assert.ContainsStringMode("ÉCLAIR", "fresh éclair", assert.CultureIgnoreCase)
	assert.DoesNotContainString("plum", strings.Join(s.store.SKUs(), ","))
}

// Restock is not a test; it has no declaration.
func (s *InventorySuite) Restock(sku string, n int) {
	s.store.stock[sku] += n
}

// Inventory returns the Inventory suite, discovered by reflection.
func Inventory() suite.Suite {
	return suite.Reflect("Inventory", map[string]suite.Declaration{
		"ListsStockedSKUs":    suite.Declare(),
		"ReservesStock":       suite.Declare(),
		"RejectsOverdraw":     suite.Declare(),
		"HonoursContext":      suite.Declare(suite.Timeout(500)),
		"ReservationIsolated": suite.Declare(),
		"NormalisesNames":     suite.Declare(),
	}, func() (*InventorySuite, error) {
		return &InventorySuite{store: NewStore(map[string]int{"apple": 5, "pear": 2, "plum": 0})}, nil
	})
}
