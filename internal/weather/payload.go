package weather

import (
	"bytes"
	"encoding/json"
)

// Payload is the weather data stored with a saved query. The raw JSON is kept
// verbatim; Variant decodes it into one of the known shapes.
type Payload struct {
	raw json.RawMessage
}

// NewPayload wraps raw JSON.
func NewPayload(raw []byte) Payload {
	if len(raw) == 0 {
		return Payload{}
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Payload{raw: cp}
}

// Raw returns the stored JSON.
func (p Payload) Raw() json.RawMessage {
	return p.raw
}

// IsEmpty reports whether no payload was supplied (absent or JSON null).
func (p Payload) IsEmpty() bool {
	trimmed := bytes.TrimSpace(p.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return p.raw, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = NewPayload(data)
	return nil
}

// Variant is one of CurrentAndForecast, DailySeries or Unknown.
type Variant interface {
	variant()
}

// CurrentAndForecast is the payload saved from the current-weather view.
type CurrentAndForecast struct {
	Current  CurrentWeather
	Forecast DailyWeather
}

// DailySeries is the payload saved from the historical view.
type DailySeries struct {
	Daily DailyWeather
}

// Unknown is any payload that matches neither known shape.
type Unknown struct{}

func (CurrentAndForecast) variant() {}
func (DailySeries) variant()        {}
func (Unknown) variant()            {}

// Variant decodes the payload. Shapes are tested by the presence of their
// sub-objects; malformed JSON is Unknown.
func (p Payload) Variant() Variant {
	if p.IsEmpty() {
		return Unknown{}
	}

	var shape struct {
		Current  *CurrentWeather `json:"current"`
		Forecast *DailyWeather   `json:"forecast"`
		Daily    *DailyWeather   `json:"daily"`
	}
	if err := json.Unmarshal(p.raw, &shape); err != nil {
		return Unknown{}
	}

	switch {
	case shape.Current != nil && shape.Forecast != nil:
		return CurrentAndForecast{Current: *shape.Current, Forecast: *shape.Forecast}
	case shape.Daily != nil:
		return DailySeries{Daily: *shape.Daily}
	default:
		return Unknown{}
	}
}
