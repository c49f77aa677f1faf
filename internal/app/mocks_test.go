package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aladin-0/RM-Backend/internal/domain"
)

// mockStore is an in-memory domain.OrderStore with failure injection.
type mockStore struct {
	mu sync.Mutex

	restaurants map[string]*domain.Restaurant
	variants    map[uuid.UUID]*mockVariant
	bills       map[uuid.UUID]*domain.Bill
	items       map[uuid.UUID]*domain.OrderItem

	// failItemCreateAt fails the nth CreateOrderItem call (1-based) when > 0.
	failItemCreateAt int
	itemCreateCalls  int
	deleteBillCalls  int
}

type mockVariant struct {
	domain.Variant
	restaurantID uuid.UUID
}

func newMockStore() *mockStore {
	return &mockStore{
		restaurants: make(map[string]*domain.Restaurant),
		variants:    make(map[uuid.UUID]*mockVariant),
		bills:       make(map[uuid.UUID]*domain.Bill),
		items:       make(map[uuid.UUID]*domain.OrderItem),
	}
}

func (m *mockStore) addRestaurant(slug string, lat, lon, radius float64) *domain.Restaurant {
	r := &domain.Restaurant{
		ID:           uuid.New(),
		Slug:         slug,
		Name:         slug,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
	}
	m.restaurants[slug] = r
	return r
}

func (m *mockStore) addVariant(restaurantID uuid.UUID, menuItemName, variantName string, prepTime int) *domain.Variant {
	v := &mockVariant{
		Variant: domain.Variant{
			ID:              uuid.New(),
			MenuItemID:      uuid.New(),
			MenuItemName:    menuItemName,
			Name:            variantName,
			Price:           120,
			PreparationTime: prepTime,
		},
		restaurantID: restaurantID,
	}
	m.variants[v.ID] = v
	return &v.Variant
}

func (m *mockStore) billCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bills)
}

func (m *mockStore) itemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *mockStore) GetRestaurant(_ context.Context, slug string) (*domain.Restaurant, error) {
	if r, ok := m.restaurants[slug]; ok {
		return r, nil
	}
	return nil, domain.ErrRestaurantNotFound
}

func (m *mockStore) GetRestaurantByID(_ context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	for _, r := range m.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRestaurantNotFound
}

func (m *mockStore) CreateBill(_ context.Context, restaurantID uuid.UUID, customerName, tableNumber string) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill := &domain.Bill{
		ID:            uuid.New(),
		RestaurantID:  restaurantID,
		CustomerName:  customerName,
		TableNumber:   tableNumber,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     time.Now(),
	}
	m.bills[bill.ID] = bill
	return bill, nil
}

func (m *mockStore) DeleteBill(_ context.Context, billID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteBillCalls++
	delete(m.bills, billID)
	for id, item := range m.items {
		if item.BillID == billID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockStore) GetBill(_ context.Context, billID uuid.UUID) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bill, ok := m.bills[billID]; ok {
		return bill, nil
	}
	return nil, domain.ErrBillNotFound
}

func (m *mockStore) GetOpenBill(_ context.Context, billID uuid.UUID) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bill, ok := m.bills[billID]; ok && bill.PaymentStatus == domain.PaymentPending {
		return bill, nil
	}
	return nil, domain.ErrBillNotFound
}

func (m *mockStore) ResolveVariant(_ context.Context, restaurantID uuid.UUID, ref domain.VariantRef) (*domain.Variant, error) {
	if ref.ByID() {
		if v, ok := m.variants[ref.VariantID]; ok && v.restaurantID == restaurantID {
			return &v.Variant, nil
		}
		return nil, domain.ErrVariantNotFound
	}
	for _, v := range m.variants {
		if v.restaurantID == restaurantID && v.MenuItemID == ref.MenuItemID && v.Name == ref.VariantName {
			return &v.Variant, nil
		}
	}
	return nil, domain.ErrVariantNotFound
}

func (m *mockStore) CreateOrderItem(_ context.Context, billID, variantID uuid.UUID, quantity int) (*domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemCreateCalls++
	if m.failItemCreateAt > 0 && m.itemCreateCalls == m.failItemCreateAt {
		return nil, errors.New("insert failed")
	}
	item := &domain.OrderItem{
		ID:        uuid.New(),
		BillID:    billID,
		VariantID: variantID,
		Quantity:  quantity,
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *mockStore) GetOrderItem(_ context.Context, itemID uuid.UUID) (*domain.OrderItemDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, domain.ErrOrderItemNotFound
	}
	variant := m.variants[item.VariantID]
	return &domain.OrderItemDetail{
		OrderItem:       *item,
		RestaurantID:    variant.restaurantID,
		MenuItemName:    variant.MenuItemName,
		VariantName:     variant.Name,
		PreparationTime: variant.PreparationTime,
	}, nil
}

func (m *mockStore) UpdateOrderItemStatus(_ context.Context, itemID uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return domain.ErrOrderItemNotFound
	}
	item.Status = status
	return nil
}

func (m *mockStore) ActiveKitchenOrders(_ context.Context, restaurantID uuid.UUID) ([]domain.KitchenOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []domain.KitchenOrder
	for _, bill := range m.bills {
		if bill.RestaurantID != restaurantID || bill.PaymentStatus != domain.PaymentPending {
			continue
		}
		waiting := false
		order := domain.KitchenOrder{
			BillID:       bill.ID,
			TableNumber:  bill.TableNumber,
			CustomerName: bill.CustomerName,
			CreatedAt:    bill.CreatedAt,
		}
		for _, item := range m.items {
			if item.BillID != bill.ID {
				continue
			}
			if item.Status == domain.StatusPending || item.Status == domain.StatusAccepted {
				waiting = true
			}
			variant := m.variants[item.VariantID]
			order.Items = append(order.Items, domain.KitchenOrderLine{
				OrderItemID: item.ID,
				Name:        variant.MenuItemName,
				VariantName: variant.Name,
				Quantity:    item.Quantity,
				Status:      string(item.Status),
			})
		}
		if waiting {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockStore) ListMenu(_ context.Context, restaurantID uuid.UUID) ([]domain.MenuEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byItem := make(map[uuid.UUID]int)
	var entries []domain.MenuEntry
	for _, v := range m.variants {
		if v.restaurantID != restaurantID {
			continue
		}
		idx, ok := byItem[v.MenuItemID]
		if !ok {
			entries = append(entries, domain.MenuEntry{ID: v.MenuItemID, Name: v.MenuItemName})
			idx = len(entries) - 1
			byItem[v.MenuItemID] = idx
		}
		entries[idx].Variants = append(entries[idx].Variants, domain.MenuVariant{
			Name:            v.Name,
			Price:           v.Price,
			PreparationTime: v.PreparationTime,
		})
	}
	return entries, nil
}

// mockPublisher records published events and can be told to fail.
type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) published() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

// stubPerms grants kitchen capability when allow is true and the
// restaurant matches the identity's.
type stubPerms struct {
	allow bool
}

func (s stubPerms) HasKitchenCapability(identity domain.Identity, restaurantID uuid.UUID) bool {
	return s.allow && identity.RestaurantID == restaurantID
}
