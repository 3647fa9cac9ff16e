package weather

import "math"

// DailySummary condenses a daily series into headline statistics.
type DailySummary struct {
	Days               int       `json:"days"`
	AvgTemp            float64   `json:"avgTemp"`
	MaxTemp            float64   `json:"maxTemp"`
	MinTemp            float64   `json:"minTemp"`
	TotalPrecipitation float64   `json:"totalPrecipitation"`
	AvgWindSpeed       float64   `json:"avgWindSpeed"`
	DominantCondition  Condition `json:"dominantCondition"`
	Description        string    `json:"description"`
}

// Summarize combines the reported days of a series; null entries are skipped
// rather than read as zero. Days counts the days with a reported temperature.
// The average temperature uses the daily mean when the provider supplied it
// and the daily maximum otherwise. The dominant condition is the most
// frequent reported code, ties going to the code seen first.
func Summarize(d DailyWeather) DailySummary {
	n := d.Len()

	temps := d.Temperature2mMean
	if len(temps) != n {
		temps = d.Temperature2mMax
	}

	tempSum, days := sum(temps, n)
	windSum, windDays := sum(d.WindSpeed10mMax, n)
	precip, _ := sum(d.PrecipitationSum, n)

	code := dominantCode(d.WeatherCode, n)

	return DailySummary{
		Days:               days,
		AvgTemp:            round1(mean(tempSum, days)),
		MaxTemp:            extreme(d.Temperature2mMax, n, math.Max),
		MinTemp:            extreme(d.Temperature2mMin, n, math.Min),
		TotalPrecipitation: round1(precip),
		AvgWindSpeed:       round1(mean(windSum, windDays)),
		DominantCondition:  ConditionForCode(code),
		Description:        Describe(code),
	}
}

// sum adds the reported values among the first n days and counts them.
func sum(s Series, n int) (float64, int) {
	var total float64
	var count int
	for i := 0; i < n; i++ {
		if v, ok := s.At(i); ok {
			total += v
			count++
		}
	}
	return total, count
}

// extreme folds the reported values with pick; 0 when nothing was reported.
func extreme(s Series, n int, pick func(a, b float64) float64) float64 {
	var (
		out   float64
		found bool
	)
	for i := 0; i < n; i++ {
		v, ok := s.At(i)
		if !ok {
			continue
		}
		if !found {
			out, found = v, true
			continue
		}
		out = pick(out, v)
	}
	return out
}

// dominantCode returns -1 when no code was reported.
func dominantCode(codes Codes, n int) int {
	counts := make(map[int]int)
	var order []int
	for i := 0; i < n; i++ {
		code, ok := codes.At(i)
		if !ok {
			continue
		}
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	}

	best, bestCount := -1, 0
	for _, code := range order {
		if counts[code] > bestCount {
			best, bestCount = code, counts[code]
		}
	}
	return best
}

func mean(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
