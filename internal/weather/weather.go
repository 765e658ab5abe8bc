// Package weather implements the second tutorial server: current-weather
// lookup against OpenWeatherMap with a deterministic demonstration fallback
// when no API key is configured.
//
// The demo/live decision is made once at startup by choosing a Source
// implementation; tools never re-check a mode flag.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

var (
	// ErrCityNotFound indicates the source knows nothing about the city.
	// For the live source this means the remote said not-found, as opposed
	// to a transport failure.
	ErrCityNotFound = errors.New("city not found")
)

// Report is the structured result of a current-weather lookup.
type Report struct {
	City        string  `json:"city"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c,omitempty"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Demo        bool    `json:"demo"`
}

// Source answers current-weather lookups. Implementations: DemoSource
// (fixed data, no network) and Client (OpenWeatherMap).
type Source interface {
	// Current returns the current weather for a city. Returns
	// ErrCityNotFound when the city is unknown to the source.
	Current(ctx context.Context, city string) (*Report, error)

	// Cities lists the city names this source is guaranteed to answer for.
	// The live source returns nil: any city may be queried.
	Cities() []string
}

// GetWeatherInput defines input for the get_weather tool.
type GetWeatherInput struct {
	City string `json:"city" jsonschema:"city name, e.g. Seoul, Busan, Tokyo, New York"`
}

// CompareWeatherInput defines input for the compare_weather tool.
type CompareWeatherInput struct {
	Cities []string `json:"cities" jsonschema:"list of city names to compare"`
}

// RecommendOutfitInput defines input for the recommend_outfit tool.
type RecommendOutfitInput struct {
	Temperature float64 `json:"temperature" jsonschema:"current temperature in Celsius"`
	IsRaining   bool    `json:"is_raining,omitempty" jsonschema:"whether it is raining"`
}

// Service exposes the weather tools over a chosen Source.
type Service struct {
	source Source
	logger log.Logger
}

// NewService creates the weather service.
func NewService(source Source, logger log.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("weather source is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{source: source, logger: logger}, nil
}

// GetWeather looks up the current weather for one city.
func (s *Service) GetWeather(ctx context.Context, input GetWeatherInput) tools.Result {
	s.logger.Info("get_weather called", "city", input.City)

	report, err := s.source.Current(ctx, input.City)
	switch {
	case errors.Is(err, ErrCityNotFound):
		if cities := s.source.Cities(); cities != nil {
			return tools.Errorf(tools.ErrCodeNotFound,
				"no demo data for %q; available cities: %s (set OPENWEATHER_API_KEY to query any city)",
				input.City, strings.Join(cities, ", "))
		}
		return tools.Errorf(tools.ErrCodeNotFound,
			"city %q not found; try the English city name", input.City)
	case err != nil:
		var toolErr *tools.Error
		if errors.As(err, &toolErr) {
			return tools.Errorf(toolErr.Code, "%s", toolErr.Message)
		}
		return tools.Errorf(tools.ErrCodeNetwork, "weather lookup failed: %v", err)
	}

	return tools.Ok(formatReport(report), report)
}

// CompareWeather looks up several cities and joins the individual reports.
func (s *Service) CompareWeather(ctx context.Context, input CompareWeatherInput) tools.Result {
	if len(input.Cities) == 0 {
		return tools.Errorf(tools.ErrCodeValidation, "at least one city is required")
	}

	var sb strings.Builder
	reports := make([]*Report, 0, len(input.Cities))
	for i, city := range input.Cities {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		result := s.GetWeather(ctx, GetWeatherInput{City: city})
		sb.WriteString(result.Message)
		if result.Status == tools.StatusSuccess {
			if r, ok := result.Data.(*Report); ok {
				reports = append(reports, r)
			}
		}
	}

	return tools.Ok(sb.String(), map[string]any{
		"requested": len(input.Cities),
		"reports":   reports,
	})
}

// outfitRanges maps a minimum temperature to a recommendation; evaluated
// top-down, first match wins.
var outfitRanges = []struct {
	min    float64
	outfit string
	tip    string
}{
	{28, "t-shirt, shorts, sandals", "don't forget sunscreen"},
	{23, "t-shirt, light trousers", "bring a light outer layer just in case"},
	{17, "long sleeves, cardigan or light jacket", "the daily temperature swing can be large"},
	{12, "jacket, knitwear, long trousers", "wind can make it feel colder"},
	{5, "coat, thick knitwear, scarf", "dress warmly"},
	{-5, "padded coat, thermal layers, gloves, scarf", "watch out for frostbite"},
}

// RecommendOutfit suggests clothing for a temperature.
func (s *Service) RecommendOutfit(input RecommendOutfitInput) tools.Result {
	outfit := "long padded coat, full winter gear"
	tip := "avoid going out if you can"
	for _, r := range outfitRanges {
		if input.Temperature >= r.min {
			outfit, tip = r.outfit, r.tip
			break
		}
	}

	msg := fmt.Sprintf("Temperature: %.1f°C\nSuggested outfit: %s\nTip: %s", input.Temperature, outfit, tip)
	if input.IsRaining {
		msg += "\nTake an umbrella!"
	}

	return tools.Ok(msg, map[string]any{
		"temperature": input.Temperature,
		"outfit":      outfit,
		"tip":         tip,
		"raining":     input.IsRaining,
	})
}

// SupportedCities renders the weather://cities resource.
func (s *Service) SupportedCities() string {
	cities := s.source.Cities()
	if cities == nil {
		return "Live mode: any city worldwide can be queried."
	}

	var sb strings.Builder
	sb.WriteString("Demo mode cities:\n")
	for _, city := range cities {
		fmt.Fprintf(&sb, "  - %s\n", city)
	}
	sb.WriteString("\nSet OPENWEATHER_API_KEY to query any city worldwide.")
	return sb.String()
}

// TravelPreparation renders the travel_preparation prompt.
func (s *Service) TravelPreparation(destination, days string) string {
	if days == "" {
		days = "3"
	}
	return fmt.Sprintf(`I am planning a %s-day trip to %s.

Please tell me:
1. The current weather in %s
2. A suggested outfit
3. Things to watch out for while travelling
4. A packing checklist`, days, destination, destination)
}

func formatReport(r *Report) string {
	var sb strings.Builder
	if r.Demo {
		fmt.Fprintf(&sb, "Current weather in %s (demo data)\n", r.City)
	} else {
		fmt.Fprintf(&sb, "Current weather in %s\n", r.City)
	}
	fmt.Fprintf(&sb, "temperature: %.1f°C", r.TempC)
	if r.FeelsLikeC != 0 {
		fmt.Fprintf(&sb, " (feels like %.1f°C)", r.FeelsLikeC)
	}
	fmt.Fprintf(&sb, "\nhumidity: %d%%\nconditions: %s\nwind: %.1fm/s", r.Humidity, r.Description, r.WindSpeed)
	if r.Demo {
		sb.WriteString("\n\nDemo mode: set OPENWEATHER_API_KEY for live data.")
	} else {
		fmt.Fprintf(&sb, "\nobserved at: %s", time.Now().Format("2006-01-02 15:04"))
	}
	return sb.String()
}
