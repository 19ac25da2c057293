package stats

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unavailable is the upstream sentinel for a stat it could not compute.
const Unavailable = -1

// maxFractionDigits matches what players see in the web client.
const maxFractionDigits = 3

var printer = message.NewPrinter(language.English)

// FormatNumber renders n with English digit grouping, or "N/A" for the -1 sentinel.
func FormatNumber(n float64) string {
	if n == Unavailable {
		return "N/A"
	}
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(maxFractionDigits)))
}

// FormatRatio renders a ratio with exactly two decimals and no grouping, or "N/A" for the -1 sentinel.
func FormatRatio(r float64) string {
	if r == Unavailable {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", r)
}

// formatRank prints the rank as the API sent it. Missing or unavailable ranks have no subtext.
func formatRank(rank *float64) string {
	if rank == nil || *rank == Unavailable {
		return ""
	}
	return "Rank #" + strconv.FormatFloat(*rank, 'f', -1, 64)
}

// Cards lays the snapshot out in display order.
func (s Snapshot) Cards() []Card {
	p := s.Stats
	return []Card{
		{Title: "Eliminations", Value: FormatNumber(p.Eliminations), Subtext: formatRank(p.EliminationsRank)},
		{Title: "Assists", Value: FormatNumber(p.Assists), Subtext: formatRank(p.AssistsRank)},
		{Title: "Shots/Headshots", Value: FormatNumber(p.Shots), Subtext: FormatNumber(p.Headshots) + " headshots"},
		{Title: "Hits to Players", Value: FormatNumber(p.HitsToPlayers)},
		{Title: "Damage to Players", Value: FormatNumber(p.DamageToPlayers)},
		{Title: "Health Taken", Value: FormatNumber(p.HealthTaken)},
		{Title: "Damage Ratio", Value: FormatRatio(p.DamageRatio), Subtext: "Damage dealt vs taken"},
	}
}
