package weather

import (
	"context"
	"sort"
)

// demoReports is the fixed demonstration dataset. Lookups are
// case-insensitive on the city name and fully deterministic.
var demoReports = map[string]Report{
	"seoul":   {City: "Seoul", TempC: 22, FeelsLikeC: 21, Humidity: 60, Description: "clear sky", WindSpeed: 2.5, Demo: true},
	"busan":   {City: "Busan", TempC: 24, FeelsLikeC: 25, Humidity: 70, Description: "scattered clouds", WindSpeed: 4.0, Demo: true},
	"jeju":    {City: "Jeju", TempC: 26, FeelsLikeC: 27, Humidity: 75, Description: "light rain", WindSpeed: 6.5, Demo: true},
	"daejeon": {City: "Daejeon", TempC: 21, FeelsLikeC: 20, Humidity: 55, Description: "few clouds", WindSpeed: 1.8, Demo: true},
	"incheon": {City: "Incheon", TempC: 20, FeelsLikeC: 19, Humidity: 65, Description: "mist", WindSpeed: 3.2, Demo: true},
}

// DemoSource serves the fixed dataset without any network I/O.
type DemoSource struct{}

// NewDemoSource creates the demonstration source.
func NewDemoSource() *DemoSource { return &DemoSource{} }

// Current returns the fixed report for a known city, ErrCityNotFound otherwise.
func (d *DemoSource) Current(_ context.Context, city string) (*Report, error) {
	r, ok := demoReports[normalizeCity(city)]
	if !ok {
		return nil, ErrCityNotFound
	}
	// Copy so callers cannot mutate the dataset.
	out := r
	return &out, nil
}

// Cities returns the demo city names, sorted.
func (d *DemoSource) Cities() []string {
	names := make([]string, 0, len(demoReports))
	for _, r := range demoReports {
		names = append(names, r.City)
	}
	sort.Strings(names)
	return names
}

func normalizeCity(city string) string {
	out := make([]rune, 0, len(city))
	for _, r := range city {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r == ' ' || r == '\t' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
