package stats

import (
	"sort"
	"time"

	"github.com/nkoivu/bossfarm/internal/domain/models"
)

// Compute reduces a run collection to its headline summary. Averages are
// zero when the collection is empty, never NaN; the best day is a
// first-encountered maximum with an empty-date sentinel for no runs.
func Compute(runs []models.FarmRun) models.FarmStats {
	totalDays := len(runs)

	var totalKills, totalChests int
	var totalEarnings float64
	best := models.BestDay{}

	for _, run := range runs {
		totalKills += run.Kills
		totalChests += run.Chests
		totalEarnings += run.TotalEarnings

		if run.TotalEarnings > best.Earnings {
			best = models.BestDay{Date: run.Date, Kills: run.Kills, Earnings: run.TotalEarnings}
		}
	}

	summary := models.FarmStats{
		TotalDays:     totalDays,
		TotalKills:    totalKills,
		TotalChests:   totalChests,
		TotalEarnings: totalEarnings,
		BestDay:       best,
	}

	if totalDays > 0 {
		summary.AverageKillsPerDay = float64(totalKills) / float64(totalDays)
		summary.AverageEarningsPerDay = totalEarnings / float64(totalDays)
	}

	return summary
}

// CurrentStreak counts consecutive calendar days with at least one run,
// walking backward from today. Duplicate days collapse to one; the first
// missing day ends the streak.
func CurrentStreak(runs []models.FarmRun, today time.Time) int {
	seen := make(map[string]struct{}, len(runs))
	days := make([]string, 0, len(runs))
	for _, run := range runs {
		if _, ok := seen[run.Date]; ok {
			continue
		}
		seen[run.Date] = struct{}{}
		days = append(days, run.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	anchor := models.Midnight(today)
	streak := 0
	for i, day := range days {
		expected := anchor.AddDate(0, 0, -i).Format(models.DateLayout)
		if day != expected {
			break
		}
		streak++
	}
	return streak
}

// Efficiency is kills per minute scaled to a percentage. Only defined for
// runs with time spent; callers must filter.
func Efficiency(run models.FarmRun) float64 {
	return float64(run.Kills) / float64(run.TimeSpent) * 100
}

// AverageEfficiency is the arithmetic mean of per-run efficiencies. Runs
// with zero time spent are excluded entirely, not averaged in as zero.
func AverageEfficiency(runs []models.FarmRun) float64 {
	var sum float64
	var counted int
	for _, run := range runs {
		if run.TimeSpent <= 0 {
			continue
		}
		sum += Efficiency(run)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

// TotalHours sums the minutes spent across all runs, in hours.
func TotalHours(runs []models.FarmRun) float64 {
	var minutes int
	for _, run := range runs {
		minutes += run.TimeSpent
	}
	return float64(minutes) / 60
}

// AverageSessionTime is the mean minutes spent per run, counting zero-time
// runs.
func AverageSessionTime(runs []models.FarmRun) float64 {
	if len(runs) == 0 {
		return 0
	}
	var minutes int
	for _, run := range runs {
		minutes += run.TimeSpent
	}
	return float64(minutes) / float64(len(runs))
}

// ComputePersonalBests scans for the four independent session records.
// Ties keep the first-encountered run; the time-based records only
// consider runs with time spent.
func ComputePersonalBests(runs []models.FarmRun) models.PersonalBests {
	var bests models.PersonalBests

	for _, run := range runs {
		if bests.MostKills.Date == "" || float64(run.Kills) > bests.MostKills.Value {
			bests.MostKills = models.PersonalBest{Value: float64(run.Kills), Date: run.Date}
		}
		if bests.HighestEarnings.Date == "" || run.TotalEarnings > bests.HighestEarnings.Value {
			bests.HighestEarnings = models.PersonalBest{Value: run.TotalEarnings, Date: run.Date}
		}

		if run.TimeSpent <= 0 {
			continue
		}
		if bests.FastestRun.Date == "" || float64(run.TimeSpent) < bests.FastestRun.Value {
			bests.FastestRun = models.PersonalBest{Value: float64(run.TimeSpent), Date: run.Date}
		}
		if eff := Efficiency(run); bests.BestEfficiency.Date == "" || eff > bests.BestEfficiency.Value {
			bests.BestEfficiency = models.PersonalBest{Value: eff, Date: run.Date}
		}
	}

	return bests
}

// LootDistribution groups loot lines across the collection by item name,
// summing quantities, and returns the top n by descending total. Equal
// totals order by name for a stable ranking.
func LootDistribution(runs []models.FarmRun, n int) []models.LootShare {
	totals := make(map[string]int)
	for _, run := range runs {
		for _, line := range run.Loot {
			totals[line.Name] += line.Quantity
		}
	}

	shares := make([]models.LootShare, 0, len(totals))
	for name, qty := range totals {
		shares = append(shares, models.LootShare{Name: name, Quantity: qty})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Quantity != shares[j].Quantity {
			return shares[i].Quantity > shares[j].Quantity
		}
		return shares[i].Name < shares[j].Name
	})

	if n > 0 && len(shares) > n {
		shares = shares[:n]
	}
	return shares
}

// WeeklyActivity maps the newest seven runs to chart bars, oldest first.
// Per-run efficiency is capped at 100 for display; zero-time runs chart as
// zero.
func WeeklyActivity(runs []models.FarmRun) []models.DayActivity {
	recent := runs
	if len(recent) > 7 {
		recent = recent[:7]
	}

	activity := make([]models.DayActivity, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		run := recent[i]

		day := ""
		if parsed, err := models.ParseDay(run.Date); err == nil {
			day = parsed.Weekday().String()[:3]
		}

		eff := 0.0
		if run.TimeSpent > 0 {
			eff = Efficiency(run)
			if eff > 100 {
				eff = 100
			}
		}

		activity = append(activity, models.DayActivity{
			Day:        day,
			Kills:      run.Kills,
			Earnings:   run.TotalEarnings,
			Efficiency: eff,
		})
	}
	return activity
}

// ComputeInsights bundles the derived session statistics for a collection
// ordered newest first.
func ComputeInsights(runs []models.FarmRun, today time.Time) models.FarmInsights {
	return models.FarmInsights{
		CurrentStreak:      CurrentStreak(runs, today),
		TotalHours:         TotalHours(runs),
		AverageSessionTime: AverageSessionTime(runs),
		AverageEfficiency:  AverageEfficiency(runs),
		PersonalBests:      ComputePersonalBests(runs),
		LootDistribution:   LootDistribution(runs, topLootEntries),
		WeeklyActivity:     WeeklyActivity(runs),
	}
}

// topLootEntries caps the loot distribution for display.
const topLootEntries = 7
