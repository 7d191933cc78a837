package change

import (
	"encoding/json"
	"math"
)

// eventJSON shadows PercentChange so that the +Inf of a band growing from
// zero intensity encodes as null.
type eventJSON struct {
	plainEvent
	PercentChange *float64 `json:"percent_change"`
}

type plainEvent Event

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	doc := eventJSON{plainEvent: plainEvent(e)}
	if !math.IsInf(e.PercentChange, 0) && !math.IsNaN(e.PercentChange) {
		pc := e.PercentChange
		doc.PercentChange = &pc
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler. A null percent change decodes
// as +Inf.
func (e *Event) UnmarshalJSON(b []byte) error {
	var doc eventJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*e = Event(doc.plainEvent)
	if doc.PercentChange == nil {
		e.PercentChange = math.Inf(1)
	} else {
		e.PercentChange = *doc.PercentChange
	}
	return nil
}
