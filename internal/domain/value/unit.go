package value

import (
	"fmt"
	"strings"
)

// UnitKey identifies a purchasable unit: a catalog item plus its fare class
// or rate plan name.
type UnitKey struct {
	ItemID   string `json:"itemId"`
	RateName string `json:"rateName"`
}

func NewUnitKey(itemID, rateName string) UnitKey {
	return UnitKey{
		ItemID:   strings.TrimSpace(itemID),
		RateName: strings.TrimSpace(rateName),
	}
}

func (k UnitKey) String() string {
	return k.ItemID + "/" + k.RateName
}

func (k UnitKey) IsZero() bool {
	return k.ItemID == "" || k.RateName == ""
}

func ParseUnitKey(s string) (UnitKey, error) {
	itemID, rateName, ok := strings.Cut(s, "/")
	key := NewUnitKey(itemID, rateName)

	if !ok || key.IsZero() {
		return UnitKey{}, fmt.Errorf("unit key %q: want item/rate", s)
	}

	return key, nil
}
