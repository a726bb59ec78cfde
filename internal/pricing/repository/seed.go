package repository

import "github.com/verdara/verdara-backend/internal/pricing/domain"

// SeedEntries is the baseline market pricing catalog loaded by the
// import worker when no CSV is supplied. Nursery-pot prices per unit,
// hardscape per area/length unit.
func SeedEntries() []domain.PriceEntry {
	return []domain.PriceEntry{
		{Category: "tree", Size: "15-gallon", LowUSD: 80, HighUSD: 150},
		{Category: "tree", Size: "24-inch box", LowUSD: 250, HighUSD: 500},
		{Category: "tree", Size: "mature", LowUSD: 800, HighUSD: 800},
		{Category: "shrub", Size: "1-gallon", LowUSD: 10, HighUSD: 20},
		{Category: "shrub", Size: "5-gallon", LowUSD: 30, HighUSD: 55},
		{Category: "bush", Size: "1-gallon", LowUSD: 10, HighUSD: 20},
		{Category: "bush", Size: "5-gallon", LowUSD: 30, HighUSD: 55},
		{Category: "grass", Size: "1-gallon", LowUSD: 8, HighUSD: 15},
		{Category: "grass", Size: "plug", LowUSD: 2, HighUSD: 5},
		{Category: "palm", Size: "15-gallon", LowUSD: 100, HighUSD: 200},
		{Category: "palm", Size: "mature (per foot of trunk)", LowUSD: 100, HighUSD: 300},
		{Category: "bamboo", Size: "5-gallon", LowUSD: 40, HighUSD: 80},
		{Category: "bamboo", Size: "15-gallon", LowUSD: 120, HighUSD: 200},
		{Category: "hedge", Size: "5-gallon", LowUSD: 35, HighUSD: 60},
		{Category: "hedge", Size: "per linear foot (installed)", LowUSD: 40, HighUSD: 100},
		{Category: "flower", Size: "4-inch pot", LowUSD: 3, HighUSD: 6},
		{Category: "flower", Size: "1-gallon", LowUSD: 10, HighUSD: 15},
		{Category: "perennial", Size: "1-gallon", LowUSD: 12, HighUSD: 18},
		{Category: "topiary", Size: "shaped 5-gallon", LowUSD: 60, HighUSD: 120},
		{Category: "topiary", Size: "mature shaped", LowUSD: 300, HighUSD: 300},
		{Category: "paver", Size: "per sq ft (installed)", LowUSD: 10, HighUSD: 25},
		{Category: "gravel", Size: "pea gravel (per cubic yard)", LowUSD: 30, HighUSD: 60},
		{Category: "mulch", Size: "per cubic yard", LowUSD: 25, HighUSD: 50},
		{Category: "edging", Size: "stone (per ft)", LowUSD: 5, HighUSD: 15},
		{Category: "retaining wall", Size: "block (per sq ft face)", LowUSD: 15, HighUSD: 25},
		{Category: "retaining wall", Size: "natural stone (per sq ft face)", LowUSD: 30, HighUSD: 60},
	}
}
