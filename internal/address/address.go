// Package address models region-specific postal addresses and validates them against their country's format.
package address

// Type classifies a saved address.
type Type string

const (
	TypeHome  Type = "home"
	TypeWork  Type = "work"
	TypeOther Type = "other"
)

// Address is a postal address whose shape is selected by Country.
// Fields holds only the keys the country's format declares, e.g. zipCode for US or pinCode for IN.
type Address struct {
	ID        string            `json:"id,omitempty"`
	Country   string            `json:"country"`
	Type      Type              `json:"type,omitempty"`
	IsDefault bool              `json:"isDefault,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Fields    map[string]string `json:"fields"`
}

// Field returns the value for key, or "" when it is absent.
func (a Address) Field(key string) string {
	return a.Fields[key]
}

// Clone returns a deep copy so callers cannot mutate stored addresses through the map.
func (a Address) Clone() Address {
	c := a
	if a.Fields != nil {
		c.Fields = make(map[string]string, len(a.Fields))
		for k, v := range a.Fields {
			c.Fields[k] = v
		}
	}
	return c
}
