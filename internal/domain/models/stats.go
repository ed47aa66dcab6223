package models

// FarmStats is the headline summary over a collection of farm runs.
type FarmStats struct {
	TotalDays             int     `json:"totalDays"`
	TotalKills            int     `json:"totalKills"`
	TotalChests           int     `json:"totalChests"`
	TotalEarnings         float64 `json:"totalEarnings"`
	AverageKillsPerDay    float64 `json:"averageKillsPerDay"`
	AverageEarningsPerDay float64 `json:"averageEarningsPerDay"`
	BestDay               BestDay `json:"bestDay"`
}

// BestDay is the single run with the highest earnings. An empty Date with
// zero counts is the sentinel for an empty collection.
type BestDay struct {
	Date     string  `json:"date"`
	Kills    int     `json:"kills"`
	Earnings float64 `json:"earnings"`
}

// PersonalBest carries one record value and the date it was achieved.
type PersonalBest struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// PersonalBests groups the four independent session records.
type PersonalBests struct {
	MostKills       PersonalBest `json:"mostKills"`
	HighestEarnings PersonalBest `json:"highestEarnings"`
	FastestRun      PersonalBest `json:"fastestRun"`
	BestEfficiency  PersonalBest `json:"bestEfficiency"`
}

// LootShare is one ranked entry of the loot distribution.
type LootShare struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DayActivity is one bar of the weekly activity chart.
type DayActivity struct {
	Day        string  `json:"day"`
	Kills      int     `json:"kills"`
	Earnings   float64 `json:"earnings"`
	Efficiency float64 `json:"efficiency"`
}

// FarmInsights bundles the derived session statistics shown alongside the
// headline summary.
type FarmInsights struct {
	CurrentStreak      int           `json:"currentStreak"`
	TotalHours         float64       `json:"totalHours"`
	AverageSessionTime float64       `json:"averageSessionTime"`
	AverageEfficiency  float64       `json:"averageEfficiency"`
	PersonalBests      PersonalBests `json:"personalBests"`
	LootDistribution   []LootShare   `json:"lootDistribution"`
	WeeklyActivity     []DayActivity `json:"weeklyActivity"`
}
