package queries

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const (
	noWeatherData    = "No weather data available"
	forecastCSVLimit = 5
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Export is a rendered saved query ready to be sent as an attachment.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ParseFormat maps the export query parameter to a Format. Empty means JSON.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(v)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", common.NewValidationError("Invalid format. Use ?format=json or ?format=csv")
	}
}

// Filename returns weather-<location>-<id>.<ext> with every non-alphanumeric
// character of the location replaced by '-'.
func Filename(q *SavedQuery, f Format) string {
	return fmt.Sprintf("weather-%s-%d.%s", unsafeFilenameChars.ReplaceAllString(q.LocationName, "-"), q.ID, f)
}

// Render produces the export of q in format f.
func Render(q *SavedQuery, f Format) (*Export, error) {
	switch f {
	case FormatJSON:
		body, err := renderJSON(q)
		if err != nil {
			return nil, common.NewUnknownError("render json export", err)
		}
		return &Export{Filename: Filename(q, f), ContentType: "application/json", Body: body}, nil
	case FormatCSV:
		body, err := renderCSV(q)
		if err != nil {
			return nil, common.NewUnknownError("render csv export", err)
		}
		return &Export{Filename: Filename(q, f), ContentType: "text/csv", Body: body}, nil
	default:
		return nil, common.NewValidationError("Invalid format. Use ?format=json or ?format=csv")
	}
}

type jsonExport struct {
	ID       int64           `json:"id"`
	Label    *string         `json:"label"`
	Location exportLocation  `json:"location"`
	Dates    exportDates     `json:"dates"`
	Weather  weather.Payload `json:"weatherData"`
	Metadata exportMetadata  `json:"metadata"`
}

type exportLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type exportDates struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Created time.Time `json:"created"`
}

type exportMetadata struct {
	GeocodingConfidence *float64 `json:"geocodingConfidence"`
	LocationType        *string  `json:"locationType"`
}

func renderJSON(q *SavedQuery) ([]byte, error) {
	return json.MarshalIndent(jsonExport{
		ID:    q.ID,
		Label: q.Label,
		Location: exportLocation{
			Name:      q.LocationName,
			Latitude:  q.Latitude,
			Longitude: q.Longitude,
		},
		Dates: exportDates{
			Start:   q.StartDate,
			End:     q.EndDate,
			Created: q.CreatedAt,
		},
		Weather: q.WeatherData,
		Metadata: exportMetadata{
			GeocodingConfidence: q.GeocodingConfidence,
			LocationType:        q.LocationType,
		},
	}, "", "  ")
}

func renderCSV(q *SavedQuery) ([]byte, error) {
	switch v := q.WeatherData.Variant().(type) {
	case weather.CurrentAndForecast:
		return currentAndForecastCSV(q, v)
	case weather.DailySeries, weather.Unknown:
		return []byte(noWeatherData), nil
	default:
		return nil, fmt.Errorf("unhandled payload variant %T", v)
	}
}

func currentAndForecastCSV(q *SavedQuery, data weather.CurrentAndForecast) ([]byte, error) {
	label := "Untitled"
	if q.Label != nil && *q.Label != "" {
		label = *q.Label
	}

	cur := data.Current
	records := [][]string{
		{"Query Information"},
		{"Label", label},
		{"Location", q.LocationName},
		{"Latitude", formatFloat(q.Latitude)},
		{"Longitude", formatFloat(q.Longitude)},
		{"Date", q.CreatedAt.Format(weather.DateLayout)},
		{""},
		{"Current Weather"},
		{"Temperature (°C)", "Wind Speed (km/h)", "Wind Direction (°)", "Time"},
		{formatFloat(cur.Temperature), formatFloat(cur.WindSpeed), formatFloat(cur.WindDirection), cur.Time},
		{""},
	}

	fc := data.Forecast
	if fc.Time != nil {
		records = append(records,
			[]string{"5-Day Forecast"},
			[]string{"Date", "Max Temp (°C)", "Min Temp (°C)", "Precipitation (mm)", "Wind Speed (km/h)"},
		)
		for i := 0; i < fc.Len() && i < forecastCSVLimit; i++ {
			records = append(records, []string{
				fc.Time[i],
				formatAt(fc.Temperature2mMax, i),
				formatAt(fc.Temperature2mMin, i),
				formatAt(fc.PrecipitationSum, i),
				formatAt(fc.WindSpeed10mMax, i),
			})
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatAt leaves the cell empty for a null day or a series shorter than its
// time axis.
func formatAt(series weather.Series, i int) string {
	v, ok := series.At(i)
	if !ok {
		return ""
	}
	return formatFloat(v)
}
