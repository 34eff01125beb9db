package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ARRScale is the factor between the stored ARR (raw currency units) and the
// value shown in the table (millions).
const ARRScale = 1_000_000

// ARRFromDisplay converts a value in millions to raw units, rounded to whole units.
func ARRFromDisplay(millions float64) float64 {
	return math.Round(millions * ARRScale)
}

// ARRToDisplay converts raw units to millions.
func ARRToDisplay(raw float64) float64 {
	return raw / ARRScale
}

// FormatARR renders raw units as the shortest millions string ("2.5").
func FormatARR(raw float64) string {
	return strconv.FormatFloat(ARRToDisplay(raw), 'f', -1, 64)
}

// ParseARR reads a millions string typed by the user and returns raw units.
// Empty input is zero.
func ParseARR(display string) (float64, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(display, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("ARR must be a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("ARR cannot be negative")
	}
	return ARRFromDisplay(v), nil
}
