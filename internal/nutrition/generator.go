// Package nutrition produces placeholder nutrition estimates for identified
// foods and derives the values shown to users from stored records.
package nutrition

import (
	"math/rand"
	"sync"
	"time"
	"unicode/utf16"

	"nutrisnap/internal/models"
)

// Generator fabricates nutrition figures. The food name only influences the
// calorie baseline; everything else is drawn from the random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator with a fixed seed, so the sequence of
// estimates is reproducible.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func NewRandomGenerator() *Generator {
	return NewGenerator(time.Now().UnixNano())
}

// BaseCalories is (length*15) mod 250 + 100, in [100, 349]. Length is counted
// in UTF-16 code units.
func BaseCalories(foodName string) int {
	n := len(utf16.Encode([]rune(foodName)))
	return (n*15)%250 + 100
}

func (g *Generator) Generate(foodName string) models.NutritionalInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	return models.NutritionalInfo{
		Calories: BaseCalories(foodName) + g.rng.Intn(100),
		Protein:  g.rng.Intn(20) + 5,
		Carbs:    g.rng.Intn(40) + 10,
		Fats:     g.rng.Intn(15) + 5,
	}
}
