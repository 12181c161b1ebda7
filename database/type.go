package database

import (
	"database/sql/driver"
	"fmt"
)

// TextField is long free text stored zstd compressed. HMDB descriptions run
// to several kilobytes per metabolite and dominate the table size otherwise.
type TextField string

// Scan decompresses a stored value, implements sql.Scanner interface
func (t *TextField) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal TextField value: %T", value)
	}
	if len(raw) == 0 {
		*t = ""
		return nil
	}
	original, err := decompress(raw)
	if err != nil {
		return fmt.Errorf("failed to decompress TextField value %x: %w", subSlice(raw, 10), err)
	}
	*t = TextField(original)
	return nil
}

// Value compresses the text, implements driver.Valuer interface
func (t TextField) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return compress([]byte(t)), nil
}

// GormDataType stores the field as a binary column on every dialect.
func (TextField) GormDataType() string {
	return "bytes"
}

func (t TextField) String() string {
	return string(t)
}

func subSlice[T any](list []T, max int) []T {
	if len(list) > max {
		return list[:max]
	}
	return list
}
