package weather

import (
	"bytes"
	"encoding/json"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

// Coordinates identify the point a weather query is made for.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

const DateLayout = "2006-01-02"

// CurrentWeather is a point-in-time snapshot as reported by the provider.
// A decoded value re-encodes to the provider's original bytes, so fields not
// modelled here (e.g. interval) reach clients unchanged.
type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`   // °C
	WindSpeed     float64 `json:"windspeed"`     // km/h
	WindDirection float64 `json:"winddirection"` // degrees
	WeatherCode   int     `json:"weathercode"`   // WMO code
	IsDay         int     `json:"is_day"`
	Time          string  `json:"time"`

	raw json.RawMessage
}

func (c *CurrentWeather) UnmarshalJSON(data []byte) error {
	type plain CurrentWeather
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CurrentWeather(p)
	c.raw = keepRaw(data)
	return nil
}

func (c CurrentWeather) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type plain CurrentWeather
	return json.Marshal(plain(c))
}

// Series is one daily variable. A nil entry is a day the provider reported
// as null; it is never read as zero.
type Series []*float64

// At returns the value for day i and whether it was reported.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return 0, false
	}
	return *s[i], true
}

// Codes is a daily WMO weather code series; nil entries were not reported.
type Codes []*int

// At returns the code for day i and whether it was reported.
func (c Codes) At(i int) (int, bool) {
	if i < 0 || i >= len(c) || c[i] == nil {
		return 0, false
	}
	return *c[i], true
}

// DailyWeather is a parallel-array daily series: index i of every array
// describes Time[i]. Like CurrentWeather it re-encodes to the provider bytes.
type DailyWeather struct {
	Time             []string `json:"time"`
	Temperature2mMax Series   `json:"temperature_2m_max"`
	Temperature2mMin Series   `json:"temperature_2m_min"`
	WeatherCode      Codes    `json:"weathercode"`
	PrecipitationSum Series   `json:"precipitation_sum"`
	WindSpeed10mMax  Series   `json:"windspeed_10m_max"`

	Temperature2mMean Series `json:"temperature_2m_mean,omitempty"`
	RainSum           Series `json:"rain_sum,omitempty"`
	SnowfallSum       Series `json:"snowfall_sum,omitempty"`
	WindGusts10mMax   Series `json:"windgusts_10m_max,omitempty"`

	raw json.RawMessage
}

func (d *DailyWeather) UnmarshalJSON(data []byte) error {
	type plain DailyWeather
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DailyWeather(p)
	d.raw = keepRaw(data)
	return nil
}

func (d DailyWeather) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	type plain DailyWeather
	return json.Marshal(plain(d))
}

// Len returns the number of days in the series.
func (d DailyWeather) Len() int {
	return len(d.Time)
}

// Consistent reports whether every required array has one entry per day and
// every optional array is either absent or full length. Null entries count.
func (d DailyWeather) Consistent() bool {
	n := len(d.Time)
	required := []int{
		len(d.Temperature2mMax),
		len(d.Temperature2mMin),
		len(d.WeatherCode),
		len(d.PrecipitationSum),
		len(d.WindSpeed10mMax),
	}
	for _, l := range required {
		if l != n {
			return false
		}
	}
	optional := []int{
		len(d.Temperature2mMean),
		len(d.RainSum),
		len(d.SnowfallSum),
		len(d.WindGusts10mMax),
	}
	for _, l := range optional {
		if l != 0 && l != n {
			return false
		}
	}
	return true
}

// Report is the provider payload handed back to clients. A decoded Report
// re-encodes to exactly the bytes the provider sent.
type Report struct {
	Latitude             float64           `json:"latitude"`
	Longitude            float64           `json:"longitude"`
	GenerationTimeMs     float64           `json:"generationtime_ms,omitempty"`
	UTCOffsetSeconds     int               `json:"utc_offset_seconds"`
	Timezone             string            `json:"timezone,omitempty"`
	TimezoneAbbreviation string            `json:"timezone_abbreviation,omitempty"`
	Elevation            float64           `json:"elevation,omitempty"`
	CurrentWeather       *CurrentWeather   `json:"current_weather,omitempty"`
	DailyUnits           map[string]string `json:"daily_units,omitempty"`
	Daily                *DailyWeather     `json:"daily,omitempty"`

	raw json.RawMessage
}

func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Report(p)
	r.raw = keepRaw(data)
	return nil
}

func (r Report) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain Report
	return json.Marshal(plain(r))
}

// Outlook is the combined current + forecast view. Its JSON form is the
// weather payload clients save with a query.
type Outlook struct {
	Current  CurrentWeather `json:"current"`
	Forecast DailyWeather   `json:"forecast"`
	Timezone string         `json:"timezone,omitempty"`
}

// keepRaw copies data unless it is JSON null.
func keepRaw(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return append(json.RawMessage(nil), trimmed...)
}
