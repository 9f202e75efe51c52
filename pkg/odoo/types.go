package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Odoo sends false for unset scalar and relational fields.
var jsonFalse = []byte("false")

func isEmpty(data []byte) bool {
	data = bytes.TrimSpace(data)
	return bytes.Equal(data, jsonFalse) || bytes.Equal(data, []byte("null"))
}

// String is a char/text/date field. false and null decode as "", numbers
// as their text.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	if isEmpty(data) {
		*s = ""
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*s = String(v)
	case float64:
		*s = String(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("odoo: can't decode %s as string", data)
	}
	return nil
}

// Many2One is a relational field sent as [id, "display name"]. A bare id is
// accepted too.
type Many2One struct {
	ID   int64
	Name string
}

func (m Many2One) IsZero() bool {
	return m.ID == 0
}

func (m *Many2One) UnmarshalJSON(data []byte) error {
	*m = Many2One{}
	if isEmpty(data) {
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		m.ID = id
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) == 0 {
		return fmt.Errorf("odoo: can't decode %s as many2one", data)
	}
	if err := json.Unmarshal(pair[0], &m.ID); err != nil {
		return fmt.Errorf("odoo: can't decode many2one id, %w", err)
	}
	if len(pair) > 1 {
		var name String
		if err := json.Unmarshal(pair[1], &name); err != nil {
			return err
		}
		m.Name = string(name)
	}
	return nil
}

func (m Many2One) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal([]any{m.ID, m.Name})
}

// IDs is a one2many/many2many field: a list of ids, or of [id, name] pairs.
type IDs []int64

func (ids *IDs) UnmarshalJSON(data []byte) error {
	*ids = IDs{}
	if isEmpty(data) {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("odoo: can't decode %s as id list, %w", data, err)
	}
	for _, r := range raw {
		var m Many2One
		if err := m.UnmarshalJSON(r); err != nil {
			return err
		}
		*ids = append(*ids, m.ID)
	}
	return nil
}
