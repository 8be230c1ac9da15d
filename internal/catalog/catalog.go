// Package catalog holds the static food database: a fixed lookup table, not
// part of the synchronization core.
package catalog

import (
	"math/rand"
	"strings"

	"caltrack/internal/domain"
)

// Item is one suggested food with its estimated energy and macros.
type Item struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Kcal     float64 `json:"kcal"`
	Protein  float64 `json:"protein"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
}

// Category names, in display order.
const (
	CategoryProtein  = "protein"
	CategoryCarbs    = "carbs"
	CategoryGoodFats = "good fats"
	CategoryFruitVeg = "fruit & veg"
	CategoryDishes   = "thai dishes"
)

var items = []Item{
	{"Grilled chicken breast 150g", CategoryProtein, 250, 40, 0, 6},
	{"Boiled eggs, 2", CategoryProtein, 140, 12, 1, 10},
	{"Salmon fillet 120g", CategoryProtein, 240, 25, 0, 15},
	{"Firm tofu 200g", CategoryProtein, 160, 18, 6, 7},
	{"Greek yogurt, 1 cup", CategoryProtein, 130, 15, 8, 3},
	{"Canned tuna in water", CategoryProtein, 120, 26, 0, 1},

	{"Brown rice, 1 cup", CategoryCarbs, 215, 5, 45, 2},
	{"Sweet potato 200g", CategoryCarbs, 180, 4, 41, 0},
	{"Whole-wheat bread, 2 slices", CategoryCarbs, 160, 8, 28, 2},
	{"Oats 50g", CategoryCarbs, 190, 7, 33, 4},
	{"Banana", CategoryCarbs, 105, 1, 27, 0},

	{"Avocado, half", CategoryGoodFats, 120, 2, 6, 11},
	{"Almonds, 20", CategoryGoodFats, 140, 5, 5, 12},
	{"Olive oil, 1 tbsp", CategoryGoodFats, 120, 0, 0, 14},
	{"Chia seeds, 1 tbsp", CategoryGoodFats, 60, 2, 5, 4},

	{"Broccoli 200g", CategoryFruitVeg, 70, 6, 14, 1},
	{"Mixed salad", CategoryFruitVeg, 90, 3, 12, 4},
	{"Apple", CategoryFruitVeg, 95, 0, 25, 0},
	{"Orange", CategoryFruitVeg, 60, 1, 15, 0},

	{"Chicken rice, 1 plate", CategoryDishes, 650, 30, 80, 22},
	{"Pad krapow with fried egg", CategoryDishes, 720, 35, 75, 30},
	{"Pad thai, 1 plate", CategoryDishes, 700, 20, 95, 25},
	{"Som tam with grilled chicken", CategoryDishes, 520, 28, 45, 20},
	{"Tom yum goong, 1 bowl", CategoryDishes, 180, 16, 12, 6},
}

// All returns every catalog item.
func All() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Search returns items whose name or category contains q, case-insensitively.
// An empty query returns everything.
func Search(q string) []Item {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return All()
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(it.Category, q) {
			out = append(out, it)
		}
	}
	return out
}

// RandomDayMenu suggests a full day of eating: two protein picks, two carb
// picks, one good fat, two fruit/veg and one dish.
func RandomDayMenu(rng *rand.Rand) []Item {
	plan := []struct {
		category string
		count    int
	}{
		{CategoryProtein, 2},
		{CategoryCarbs, 2},
		{CategoryGoodFats, 1},
		{CategoryFruitVeg, 2},
		{CategoryDishes, 1},
	}
	var picks []Item
	for _, p := range plan {
		pool := byCategory(p.category)
		for i := 0; i < p.count; i++ {
			picks = append(picks, pool[rng.Intn(len(pool))])
		}
	}
	return picks
}

// Entry converts a catalog item into a loggable food entry.
func (it Item) Entry() domain.FoodEntry {
	return domain.FoodEntry{
		Name:    it.Name,
		Kcal:    it.Kcal,
		Protein: it.Protein,
		Carb:    it.Carb,
		Fat:     it.Fat,
	}
}

// MenuTotals sums a suggested menu the same way day totals are summed.
func MenuTotals(menu []Item) domain.Totals {
	foods := make([]domain.FoodEntry, len(menu))
	for i, it := range menu {
		foods[i] = it.Entry()
	}
	return domain.SumTotals(foods)
}

func byCategory(category string) []Item {
	var out []Item
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
