// internal/models/scan.go
package models

import (
	"errors"
	"time"
)

var ErrNegativeNutrient = errors.New("nutritional values must be non-negative")

// NutritionalInfo holds per-serving figures as stored, before any portion or
// unit conversion. Calories are kcal, macros are grams.
type NutritionalInfo struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

func (n NutritionalInfo) Validate() error {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fats < 0 {
		return ErrNegativeNutrient
	}
	return nil
}

// Scan is one recorded analysis. It is never modified after creation.
type Scan struct {
	ID              string          `json:"id"`
	FoodName        string          `json:"foodName"`
	ImageURL        string          `json:"imageUrl"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Identification is what the image identification provider returns.
type Identification struct {
	FoodName                   string `json:"foodName"`
	TriggerNutritionalAnalysis bool   `json:"triggerNutritionalAnalysis"`
}

type AnalyzeRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
}

type TipsResponse struct {
	Tips    []string `json:"tips"`
	Warning string   `json:"warning,omitempty"`
}
