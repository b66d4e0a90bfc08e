package risk

import (
	"fmt"
	"sort"
	"strings"
)

type contribution struct {
	name  string
	score float64
	base  float64
}

// identifyMainFactors ranks risk contributions by weighted score and returns
// the top 3 whose unweighted base risk exceeds 30.
func identifyMainFactors(tempRisk, windRisk, precipRisk, patternRisk, stormRisk, hailRisk float64, w weights) []string {
	contributions := []contribution{
		{"temperatura", tempRisk * w.temperature, tempRisk},
		{"viento", windRisk * w.wind, windRisk},
		{"precipitación", precipRisk * w.precipitation, precipRisk},
		{"patrones severos", patternRisk * w.patterns, patternRisk},
		{"tormentas eléctricas", stormRisk * 0.2, stormRisk},
		{"granizo", hailRisk * 0.2, hailRisk},
	}

	var significant []contribution
	for _, c := range contributions {
		if c.base > 30 {
			significant = append(significant, c)
		}
	}
	sort.SliceStable(significant, func(i, j int) bool { return significant[i].score > significant[j].score })

	var factors []string
	for i, c := range significant {
		if i >= 3 {
			break
		}
		factors = append(factors, c.name)
	}
	return factors
}

var moderateSpecifics = map[Profile]string{
	Pilot:         " Check METAR/TAF before operating.",
	Farmer:        " Assess whether fieldwork should proceed.",
	OutdoorSports: " Consider alternate routes or postponing.",
	OutdoorEvent:  " Have a backup plan ready.",
}

var highSpecifics = map[Profile]string{
	Pilot:         " Reconsider the operation. Check the updated briefing.",
	Trucker:       " Consider postponing the trip or taking an alternate route.",
	Farmer:        " Suspend exposed fieldwork.",
	OutdoorSports: " Not recommended to go out. Risk of accident.",
	OutdoorEvent:  " Consider cancelling or relocating.",
}

func generateRecommendation(profile Profile, category Category, factors []string) string {
	switch category {
	case VeryLow:
		return "Favorable conditions for your activity."
	case Low:
		return "Acceptable conditions. Monitor updates."
	}

	factorsText := "weather conditions"
	if len(factors) > 0 {
		factorsText = strings.Join(factors, ", ")
	}

	switch category {
	case Moderate:
		base := fmt.Sprintf("Caution due to %s.", factorsText)
		specific, ok := moderateSpecifics[profile]
		if !ok {
			specific = " Assess the activity."
		}
		return base + specific
	case High:
		base := fmt.Sprintf("High risk due to %s.", factorsText)
		specific, ok := highSpecifics[profile]
		if !ok {
			specific = " Modify or postpone the activity."
		}
		return base + specific
	case VeryHigh, Extreme:
		severity := "Very high"
		if category == Extreme {
			severity = "Extreme"
		}
		return fmt.Sprintf("%s risk. Avoid outdoor activity. Prioritize safety.", severity)
	default:
		return "Assess conditions before proceeding."
	}
}
