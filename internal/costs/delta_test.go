package costs

import (
	"math"
	"testing"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		curr float64
		want float64
	}{
		{"no spend either day", 0, 0, 0},
		{"new spend from zero", 0, 5, 100},
		{"new large spend from zero", 0, 5000, 100},
		{"fifty percent up", 100, 150, 50},
		{"fifty percent down", 100, 50, -50},
		{"doubled", 50, 100, 100},
		{"spend stops", 100, 0, -100},
		{"unchanged", 42.5, 42.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentChange(tt.prev, tt.curr)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percentChange(%v, %v) = %v, want %v", tt.prev, tt.curr, got, tt.want)
			}
		})
	}
}

func TestDayOverDay_VirtualMachineScenario(t *testing.T) {
	day1 := Breakdown{Databricks: 0, VirtualMachine: 10, Storage: 0, Others: 5}
	day2 := Breakdown{Databricks: 0, VirtualMachine: 20, Storage: 0, Others: 5}
	day3 := Breakdown{Databricks: 0, VirtualMachine: 0, Storage: 0, Others: 5}

	first := DayOverDay(day1, day2)
	if first[VirtualMachine] != 100 {
		t.Errorf("day2 VirtualMachine change = %v, want +100", first[VirtualMachine])
	}
	if first[Storage] != 0 {
		t.Errorf("day2 Storage change = %v, want 0 for zero-on-both-days", first[Storage])
	}
	if first[Others] != 0 {
		t.Errorf("day2 Others change = %v, want 0 for unchanged spend", first[Others])
	}

	second := DayOverDay(day2, day3)
	if second[VirtualMachine] != -100 {
		t.Errorf("day3 VirtualMachine change = %v, want -100", second[VirtualMachine])
	}
}

func TestDayOverDay_CoversAllCategories(t *testing.T) {
	changes := DayOverDay(NewBreakdown(), NewBreakdown())

	if len(changes) != len(AllCategories) {
		t.Fatalf("Expected %d categories, got %d", len(AllCategories), len(changes))
	}
	for _, cat := range AllCategories {
		if _, ok := changes[cat]; !ok {
			t.Errorf("category %s missing from changes", cat)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{50, "+50.00%"},
		{-50, "-50.00%"},
		{0, "+0.00%"},
		{12.345, "+12.35%"},
		{100, "+100.00%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.change); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.change, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		cost float64
		want string
	}{
		{0, "$0.00"},
		{123.456, "$123.46"},
		{1000, "$1000.00"},
	}

	for _, tt := range tests {
		if got := FormatCost(tt.cost); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.cost, got, tt.want)
		}
	}
}
