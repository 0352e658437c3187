package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jsamuelsen/storefront/internal/domain"
)

// Translator converts one external DTO into a domain value, validating it
// on the way. A returned error rejects the record.
type Translator[E, D any] func(ext *E) (D, error)

// Rejected describes an external record that failed translation.
type Rejected struct {
	Index int
	Err   error
}

// TranslateEach applies translate to every item. Unlike an all-or-nothing
// translation, records that fail are collected in rejected and the rest are
// returned in their original order.
func TranslateEach[E, D any](items []E, translate Translator[E, D]) (translated []D, rejected []Rejected) {
	translated = make([]D, 0, len(items))

	for i := range items {
		d, err := translate(&items[i])
		if err != nil {
			rejected = append(rejected, Rejected{Index: i, Err: err})
			continue
		}

		translated = append(translated, d)
	}

	return translated, rejected
}

// DecodeJSON decodes a JSON body into T and closes it.
func DecodeJSON[T any](body io.ReadCloser) (T, error) {
	var result T

	if body == nil {
		return result, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return result, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}

// ValidateRequired rejects an empty string.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}

// ValidatePositive rejects zero and negative numbers.
func ValidatePositive[T ~int | ~int64 | ~float64](value T, fieldName string) error {
	if value <= 0 {
		return domain.NewValidationErrorWithValue(fieldName, "must be positive", value)
	}

	return nil
}
