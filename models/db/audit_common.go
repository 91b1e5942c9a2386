package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

type EntityChanges struct {
	Description string         `json:"description"`
	Data        []FieldChanges `json:"data"`
}

type FieldChanges struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported changes value type %T", value)
	}
	if err := json.Unmarshal(raw, &j); err != nil {
		return err
	}
	return nil
}

func (j *EntityChanges) Add(field string, oldValue, newValue any) {
	j.Data = append(j.Data, FieldChanges{
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	})
}
