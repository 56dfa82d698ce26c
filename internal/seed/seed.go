package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"parkbooking/internal/domain"
)

//go:embed parks.yaml
var defaultParks []byte

type ParkStore interface {
	ListParks(ctx context.Context) ([]*domain.Park, error)
	AddPark(ctx context.Context, park *domain.Park) error
}

type parkFile struct {
	Parks []parkEntry `yaml:"parks"`
}

type parkEntry struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Location      string `yaml:"location"`
	GuestLimit    int    `yaml:"guestLimit"`
	Price         string `yaml:"price"`
	Currency      string `yaml:"currency"`
	AvailableDays int    `yaml:"availableDays"`
}

// load reads park definitions from path, or the bundled defaults when path is empty.
func load(path string) ([]parkEntry, error) {
	data := defaultParks
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
	}

	var file parkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return file.Parks, nil
}

// Parks adds the parks from path when the store holds none. Availability
// starts at today.
func Parks(ctx context.Context, store ParkStore, path string, logger *zap.Logger) error {
	existing, err := store.ListParks(ctx)
	if err != nil {
		return fmt.Errorf("listing parks: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("park store already seeded", zap.Int("parks", len(existing)))
		return nil
	}

	entries, err := load(path)
	if err != nil {
		return err
	}

	today := domain.Today()
	for _, e := range entries {
		park, err := e.toPark(today)
		if err != nil {
			return fmt.Errorf("seeding park %q: %w", e.Name, err)
		}
		if err := store.AddPark(ctx, park); err != nil {
			return fmt.Errorf("seeding park %q: %w", e.Name, err)
		}
	}

	logger.Info("seeded parks", zap.Int("parks", len(entries)))
	return nil
}

func (e parkEntry) toPark(start domain.Date) (*domain.Park, error) {
	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", domain.ErrInvalidArgument, e.Price)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidArgument)
	}

	dates := make([]domain.Date, 0, e.AvailableDays)
	for i := 0; i < e.AvailableDays; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return domain.NewPark(uuid.New(), e.Name, e.Description, e.Location, e.GuestLimit,
		domain.NewMoney(price, e.Currency), dates)
}
