// Package seed fills an empty database with a demo menu and a history of
// orders so the dashboard has something to show.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/service"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/rs/zerolog"
)

// DemoMenu is the menu created when the catalog is empty.
var DemoMenu = []model.MenuItemRequest{
	{Name: "Masala Dosa", Price: model.NewPrice(80), Category: "South Indian", Portion: model.PortionFull, Veg: true},
	{Name: "Idli", Price: model.NewPrice(40), Category: "South Indian", Portion: model.PortionRegular, Veg: true},
	{Name: "Medu Vada", Price: model.NewPrice(45), Category: "South Indian", Portion: model.PortionRegular, Veg: true},
	{Name: "Paneer Tikka", Price: model.NewPrice(180), Category: "Starters", Portion: model.PortionHalf, Veg: true},
	{Name: "Chicken 65", Price: model.NewPrice(200), Category: "Starters", Portion: model.PortionHalf},
	{Name: "Chicken Biryani", Price: model.NewPrice(250), Category: "Rice", Portion: model.PortionFull},
	{Name: "Veg Pulao", Price: model.NewPrice(160), Category: "Rice", Portion: model.PortionFull, Veg: true},
	{Name: "Mutton Curry", Price: model.NewPrice(320), Category: "Curries", Portion: model.PortionFull},
	{Name: "Dal Tadka", Price: model.NewPrice(140), Category: "Curries", Portion: model.PortionFull, Veg: true},
	{Name: "Butter Naan", Price: model.NewPrice(35), Category: "Breads", Portion: model.PortionRegular, Veg: true},
	{Name: "Mango Lassi", Price: model.NewPrice(90), Category: "Drinks", Portion: model.PortionJumbo, Veg: true},
	{Name: "Filter Coffee", Price: model.NewPrice(30), Category: "Drinks", Portion: model.PortionRegular, Veg: true},
}

// Generator produces random but plausible orders.
type Generator struct {
	fake faker.Faker
	now  func() time.Time
}

// NewGenerator creates a generator. The same seed yields the same orders for
// the same menu and clock.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// Orders generates n orders over the given span ending now. Items are drawn
// from the available entries of menu.
func (g *Generator) Orders(menu []model.MenuItem, n, tableCount int, span time.Duration) ([]model.Order, error) {
	available := make([]model.MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.Available {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("no available menu items to order from")
	}
	if tableCount < 1 {
		tableCount = model.DefaultTableCount
	}

	end := g.now().UTC()
	start := end.Add(-span)

	orders := make([]model.Order, n)
	for i := range orders {
		orders[i] = g.order(available, tableCount, start, end)
	}
	return orders, nil
}

func (g *Generator) order(menu []model.MenuItem, tableCount int, start, end time.Time) model.Order {
	count := g.fake.IntBetween(1, 4)
	items := make([]model.LineItem, count)
	for i := range items {
		items[i] = menu[g.fake.IntBetween(0, len(menu)-1)].LineItem()
	}

	o := model.Order{
		ID:            uuid.New(),
		Items:         items,
		Status:        model.OrderStatuses[g.fake.IntBetween(0, len(model.OrderStatuses)-1)],
		PaymentStatus: model.PaymentStatuses[g.fake.IntBetween(0, len(model.PaymentStatuses)-1)],
		Timestamp:     g.fake.Time().TimeBetween(start, end).UTC(),
	}

	if g.fake.IntBetween(0, 2) > 0 {
		table := g.fake.IntBetween(1, tableCount)
		o.Type = model.OrderTypeDineIn
		o.TableNo = &table
		return o
	}

	phone := g.fake.Numerify("9#########")
	building := "B" + g.fake.Numerify("##")
	flat := g.fake.Numerify("###")
	o.Type = model.OrderTypeDelivery
	o.PhoneNo = &phone
	o.BuildingNo = &building
	o.FlatNo = &flat
	return o
}

// Result summarises a seeding run.
type Result struct {
	MenuItems int `json:"menu_items"`
	Orders    int `json:"orders"`
}

// Seeder writes generated data through the services and repositories.
type Seeder struct {
	menu     service.MenuService
	orders   repository.OrderRepository
	settings service.SettingsService
	gen      *Generator
	logger   zerolog.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(
	menu service.MenuService,
	orders repository.OrderRepository,
	settings service.SettingsService,
	gen *Generator,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		menu:     menu,
		orders:   orders,
		settings: settings,
		gen:      gen,
		logger:   logger.With().Str("component", "seed").Logger(),
	}
}

// Run creates the demo menu when the catalog is empty and inserts n orders
// spread over span. Orders are inserted directly so they keep their
// historical timestamps and statuses.
func (s *Seeder) Run(ctx context.Context, n int, span time.Duration) (*Result, error) {
	res := &Result{}

	menu, err := s.menu.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(menu) == 0 {
		for i := range DemoMenu {
			req := DemoMenu[i]
			item, err := s.menu.AddOrUpdate(ctx, &req)
			if err != nil {
				return res, fmt.Errorf("failed to seed menu item %q: %w", req.Name, err)
			}
			menu = append(menu, *item)
			res.MenuItems++
		}
		s.logger.Info().Int("items", res.MenuItems).Msg("demo menu created")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return res, err
	}

	orders, err := s.gen.Orders(menu, n, settings.TableCount, span)
	if err != nil {
		return res, err
	}

	for i := range orders {
		if err := s.orders.Insert(ctx, &orders[i]); err != nil {
			return res, fmt.Errorf("failed to seed order: %w", err)
		}
		res.Orders++
	}

	s.logger.Info().Int("orders", res.Orders).Msg("demo orders created")
	return res, nil
}
