package decoder

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

type URLDecoder struct {
	dec *schema.Decoder
}

// New returns a query-string decoder keyed by the `schema` struct tag.
// Unknown keys are ignored unless strict is set.
func New(strict bool) *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(!strict)
	dec.ZeroEmpty(true)
	return &URLDecoder{dec: dec}
}

func (d *URLDecoder) Decode(dst any, src url.Values) error {
	err := d.dec.Decode(dst, src)
	if err == nil {
		return nil
	}
	var multi schema.MultiError
	if errors.As(err, &multi) {
		for key, fieldErr := range multi {
			var unknown schema.UnknownKeyError
			if errors.As(fieldErr, &unknown) {
				return fmt.Errorf("unknown query parameter %q", unknown.Key)
			}
			return fmt.Errorf("invalid value for query parameter %q", key)
		}
	}
	return err
}
