// Package menuimport bulk-loads menu items from CSV files.
//
// A file has one item per row with the columns
//
//	name,price,category,portion,veg,available
//
// and an optional header row. Files ending in .gz are gunzipped first.
package menuimport

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"restaurant-pos/internal/model"

	"github.com/mitchellh/mapstructure"
)

// Columns lists the CSV columns in order.
var Columns = []string{"name", "price", "category", "portion", "veg", "available"}

// Loader reads the menu items of one source.
type Loader interface {
	Load(ctx context.Context, source string) ([]model.MenuItemRequest, error)
}

type row struct {
	Name      string  `mapstructure:"name"`
	Price     float64 `mapstructure:"price"`
	Category  string  `mapstructure:"category"`
	Portion   string  `mapstructure:"portion"`
	Veg       bool    `mapstructure:"veg"`
	Available *bool   `mapstructure:"available"`
}

// Parse reads every row of a CSV stream. name is used to detect gzip and in
// error messages.
func Parse(ctx context.Context, r io.Reader, name string) ([]model.MenuItemRequest, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []model.MenuItemRequest
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(fields[0]), Columns[0]) {
			continue
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		item, err := decodeRow(fields)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func decodeRow(fields []string) (model.MenuItemRequest, error) {
	if len(fields) < 2 || len(fields) > len(Columns) {
		return model.MenuItemRequest{}, fmt.Errorf("expected 2 to %d columns, got %d", len(Columns), len(fields))
	}

	values := make(map[string]any, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		values[Columns[i]] = f
	}

	var r row
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &r,
	})
	if err != nil {
		return model.MenuItemRequest{}, err
	}
	if err := decoder.Decode(values); err != nil {
		return model.MenuItemRequest{}, err
	}

	req := model.MenuItemRequest{
		Name:      r.Name,
		Category:  r.Category,
		Portion:   model.Portion(r.Portion),
		Veg:       r.Veg,
		Available: r.Available,
	}
	if _, ok := values["price"]; ok {
		if !model.IsFinite(r.Price) {
			return model.MenuItemRequest{}, fmt.Errorf("price %q is not numeric", values["price"])
		}
		req.Price = model.NewPrice(r.Price)
	}
	return req, nil
}
