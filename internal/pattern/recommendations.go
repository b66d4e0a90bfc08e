package pattern

// stormRecommendations returns guidance scaled to a convective storm's risk
// tier.
func stormRecommendations(risk RiskLevel) []string {
	recs := []string{
		"Secure loose outdoor objects",
		"Avoid open areas during the event",
	}
	switch risk {
	case RiskExtreme, RiskHigh:
		recs = append(recs,
			"Postpone outdoor activities",
			"Keep away from trees and power lines",
			"Monitor official alerts continuously",
		)
	case RiskModerate:
		recs = append(recs, "Monitor forecast updates")
	}
	return recs
}

// heatRecommendations returns guidance scaled to a heat wave's risk tier.
func heatRecommendations(risk RiskLevel) []string {
	recs := []string{
		"Stay hydrated",
		"Avoid sun exposure during peak hours (11:00-17:00)",
	}
	switch risk {
	case RiskExtreme:
		recs = append(recs,
			"Check on elderly and at-risk individuals",
			"Avoid strenuous outdoor activity entirely",
			"Keep indoor spaces cool and ventilated",
		)
	case RiskHigh:
		recs = append(recs,
			"Limit outdoor physical activity",
			"Check on at-risk individuals",
		)
	case RiskModerate:
		recs = append(recs, "Take frequent breaks in the shade")
	}
	return recs
}

// coldRecommendations returns guidance scaled to a cold wave's risk tier.
func coldRecommendations(risk RiskLevel) []string {
	recs := []string{
		"Dress in layers",
		"Protect water pipes from freezing",
	}
	switch risk {
	case RiskExtreme:
		recs = append(recs,
			"Check on at-risk individuals and people without shelter",
			"Avoid prolonged outdoor exposure",
			"Protect livestock and sensitive crops",
		)
	case RiskHigh:
		recs = append(recs,
			"Limit prolonged outdoor exposure",
			"Protect sensitive crops",
		)
	case RiskModerate:
		recs = append(recs, "Monitor overnight temperature drops")
	}
	return recs
}

// frostRecommendations returns guidance scaled to a frost event's risk tier.
func frostRecommendations(risk RiskLevel) []string {
	recs := []string{
		"Protect sensitive plants and crops",
	}
	switch risk {
	case RiskExtreme:
		recs = append(recs,
			"Cover or relocate frost-sensitive crops",
			"Protect outdoor water sources from freezing",
			"Check on livestock shelter",
		)
	case RiskHigh:
		recs = append(recs, "Cover frost-sensitive plants overnight")
	case RiskModerate:
		recs = append(recs, "Watch for frost on exposed surfaces at dawn")
	}
	return recs
}

// extremeHeatRecommendations returns guidance for the single-point extreme
// heat pattern, which has only one severity tier.
func extremeHeatRecommendations() []string {
	return []string{
		"Avoid all unnecessary outdoor exposure",
		"Stay hydrated and seek air-conditioned spaces",
		"Check on elderly, children, and at-risk individuals",
		"Never leave people or pets in parked vehicles",
	}
}
