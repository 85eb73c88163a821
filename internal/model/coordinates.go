package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Coordinates - географические координаты точки, хранятся в jsonb как {"lat":..,"lng":..}.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero сообщает, что координаты не заданы.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Value реализует driver.Valuer.
func (c Coordinates) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan реализует sql.Scanner.
func (c *Coordinates) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = Coordinates{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("coordinates: неподдерживаемый тип %T", src)
	}
}

// JSONMap - произвольный jsonb объект (например, данные события аналитики).
type JSONMap map[string]any

// Value реализует driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan реализует sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsonmap: неподдерживаемый тип %T", src)
	}
	return json.Unmarshal(raw, m)
}
