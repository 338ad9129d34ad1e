package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nutrisnap/internal/models"
)

// OuncesPerGram converts macro grams for display in ounces.
const OuncesPerGram = 0.035274

var ErrInvalidPortion = errors.New("invalid portion multiplier")

type Portion struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// Portions is the fixed set of serving sizes a user can pick from.
var Portions = []Portion{
	{Label: "1 Piece", Multiplier: 0.5},
	{Label: "1 Bowl / Small Plate", Multiplier: 1},
	{Label: "Large Plate", Multiplier: 1.5},
	{Label: "Full Meal", Multiplier: 2},
}

const DefaultPortion = 1.0

func ValidatePortion(multiplier float64) error {
	for _, p := range Portions {
		if p.Multiplier == multiplier {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidPortion, multiplier)
}

// ParsePortion reads a multiplier from user input. Empty input means the
// default portion.
func ParsePortion(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPortion, nil
	}
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPortion, s)
	}
	if err := ValidatePortion(m); err != nil {
		return 0, err
	}
	return m, nil
}

// MacroShares are percentages of each macro over the unscaled macro total.
type MacroShares struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// View is a stored record rendered for a given portion and unit system.
type View struct {
	Calories int          `json:"calories"`
	Protein  int          `json:"protein"`
	Carbs    int          `json:"carbs"`
	Fats     int          `json:"fats"`
	Unit     string       `json:"unit"`
	Units    models.Units `json:"units"`
	Portion  float64      `json:"portion"`
	Shares   MacroShares  `json:"shares"`
}

func UnitFactor(units models.Units) float64 {
	if units == models.UnitsOunces {
		return OuncesPerGram
	}
	return 1
}

func UnitLabel(units models.Units) string {
	if units == models.UnitsOunces {
		return "oz"
	}
	return "g"
}

// Render scales info by portion and converts macros to units. Rounding
// happens here and nowhere else; calories are never unit-converted.
func Render(info models.NutritionalInfo, portion float64, units models.Units) (View, error) {
	if err := ValidatePortion(portion); err != nil {
		return View{}, err
	}
	units, err := models.ParseUnits(string(units))
	if err != nil {
		return View{}, err
	}

	factor := UnitFactor(units)
	return View{
		Calories: round(float64(info.Calories) * portion),
		Protein:  round(float64(info.Protein) * portion * factor),
		Carbs:    round(float64(info.Carbs) * portion * factor),
		Fats:     round(float64(info.Fats) * portion * factor),
		Unit:     UnitLabel(units),
		Units:    units,
		Portion:  portion,
		Shares:   shares(info),
	}, nil
}

func shares(info models.NutritionalInfo) MacroShares {
	total := float64(info.Protein + info.Carbs + info.Fats)
	if total == 0 {
		return MacroShares{}
	}
	return MacroShares{
		Protein: float64(info.Protein) / total * 100,
		Carbs:   float64(info.Carbs) / total * 100,
		Fats:    float64(info.Fats) / total * 100,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
