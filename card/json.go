package card

import (
	"encoding/json"
	"fmt"
)

type wireCard struct {
	Suit string `json:"suit"`
	Face int    `json:"face"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{Suit: c.Suit().String(), Face: c.Face()})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	suit, err := ParseSuit(w.Suit)
	if err != nil {
		return err
	}
	if w.Face < 1 || w.Face > 5 {
		return fmt.Errorf("card: invalid face %d", w.Face)
	}
	*c = New(suit, w.Face)
	return nil
}
