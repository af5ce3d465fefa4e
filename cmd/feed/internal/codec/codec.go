// Package codec (de)serializes price-update batches to the wire format: a
// JSON array of {"symbol": string, "price": number} objects, one array per
// text frame.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/smeshko/tickers/pkg/models"
)

// wireUpdate mirrors models.PriceUpdate but uses pointer fields so a missing
// key can be told apart from a zero value during decoding.
type wireUpdate struct {
	Symbol *string  `json:"symbol"`
	Price  *float64 `json:"price"`
}

// Encode serializes a batch in order. An error means there is nothing to
// send; callers skip the frame.
func Encode(batch []models.PriceUpdate) (string, error) {
	if batch == nil {
		batch = []models.PriceUpdate{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encode price updates: %w", err)
	}
	return string(data), nil
}

// Decode parses one wire frame into a batch. Acceptance is all-or-nothing:
// a non-array top level or any element missing a required field fails the
// whole batch. Unknown object fields are ignored. The empty array decodes
// to an empty batch.
func Decode(message string) ([]models.PriceUpdate, error) {
	var raw []wireUpdate
	if err := json.Unmarshal([]byte(message), &raw); err != nil {
		return nil, fmt.Errorf("decode price updates: %w", err)
	}
	if raw == nil {
		// JSON null unmarshals without error but is not an array.
		return nil, fmt.Errorf("decode price updates: top level is not an array")
	}

	batch := make([]models.PriceUpdate, 0, len(raw))
	for i, u := range raw {
		if u.Symbol == nil {
			return nil, fmt.Errorf("decode price updates: element %d missing symbol", i)
		}
		if u.Price == nil {
			return nil, fmt.Errorf("decode price updates: element %d missing price", i)
		}
		batch = append(batch, models.PriceUpdate{Symbol: *u.Symbol, Price: *u.Price})
	}
	return batch, nil
}
