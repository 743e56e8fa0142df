package advisor

import "google.golang.org/genai"

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func object(props map[string]*genai.Schema, order ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         order,
		PropertyOrdering: order,
	}
}

func list(item *genai.Schema, desc string, maxItems int64) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeArray, Items: item, Description: desc}
	if maxItems > 0 {
		s.MaxItems = genai.Ptr(maxItems)
	}
	return s
}

var cropAdviceSchema = object(map[string]*genai.Schema{
	"recommendations": list(object(map[string]*genai.Schema{
		"name":            str("The name of the recommended crop."),
		"reason":          str("Why this crop suits the soil, climate and market demand."),
		"estimatedProfit": str(`Estimated profit per acre in INR, e.g. "₹30,000 - ₹40,000".`),
		"sowingTime":      str("The ideal sowing time or season."),
	}, "name", "reason", "estimatedProfit", "sowingTime"), "Up to 3 recommended crops.", maxRecommendations),
	"summary": str("The overall strategy behind the recommendations."),
}, "recommendations", "summary")

var pestPredictionSchema = object(map[string]*genai.Schema{
	"predictions": list(object(map[string]*genai.Schema{
		"name": str("Name of the pest or disease."),
		"riskLevel": {
			Type:        genai.TypeString,
			Format:      "enum",
			Enum:        riskLevels,
			Description: "The predicted risk level.",
		},
		"reason":             str("The reason for the risk level, citing weather conditions."),
		"preventativeAction": str("A key preventative action."),
	}, "name", "riskLevel", "reason", "preventativeAction"), "Pest and disease risk predictions.", 0),
	"summary": str("The risk profile for the coming days."),
}, "predictions", "summary")

var irrigationSchema = object(map[string]*genai.Schema{
	"schedule": list(object(map[string]*genai.Schema{
		"day":                    str(`The day, e.g. "Today" or "Monday".`),
		"wateringRecommendation": str(`e.g. "Water in the morning" or "No watering needed".`),
		"reason":                 str("The reason, citing weather conditions."),
		"estimatedAmount":        str(`Water amount if watering is needed, e.g. "1-2 inches".`),
	}, "day", "wateringRecommendation", "reason", "estimatedAmount"), "A 7-day irrigation schedule.", scheduleDays),
	"summary": str("The week's irrigation plan and water-saving tips."),
}, "schedule", "summary")

func number(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Description: desc}
}

func enum(desc string, values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: values, Description: desc}
}

func confidence() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeNumber,
		Description: "The confidence of the identification, from 0 to 1.",
		Minimum:     genai.Ptr(0.0),
		Maximum:     genai.Ptr(1.0),
	}
}

var farmReportSchema = object(map[string]*genai.Schema{
	"totalRevenue": number("Estimated total revenue in INR: last year's yield times the current market price."),
	"cropHealth":   number("Estimated overall crop health as a percentage, e.g. 92."),
	"yieldTrend": list(object(map[string]*genai.Schema{
		"month": str(`The month, e.g. "January".`),
		"yield": number("Estimated yield in quintals for the month."),
	}, "month", "yield"), "Estimated yield for each of the last 6 months.", trendMonths),
	"revenueSummary": str("One sentence on the revenue estimate."),
	"healthSummary":  str("One sentence on the health score."),
}, "totalRevenue", "cropHealth", "yieldTrend", "revenueSummary", "healthSummary")

var soilAnalysisSchema = object(map[string]*genai.Schema{
	"soilType":                str(`The soil type, e.g. "Sandy Loam" or "Clay".`),
	"phLevel":                 number("The estimated soil pH."),
	"organicMatterPercentage": number("The estimated organic matter percentage."),
	"nutrientLevels": list(object(map[string]*genai.Schema{
		"name":  str("Nitrogen, Phosphorus or Potassium."),
		"value": enum("The nutrient level.", nutrientLevels),
	}, "name", "value"), "Levels of the key nutrients.", 0),
	"recommendedCrops": list(object(map[string]*genai.Schema{
		"name":   str("The recommended crop."),
		"reason": str("Why it suits this soil, location and season."),
	}, "name", "reason"), "Crops suited to the soil, location and season.", 0),
	"soilImprovementTips": list(str("A soil improvement tip."), "Tips for improving soil health.", 0),
}, "soilType", "phLevel", "organicMatterPercentage", "nutrientLevels", "recommendedCrops", "soilImprovementTips")

var cropProblemSchema = object(map[string]*genai.Schema{
	"identification": object(map[string]*genai.Schema{
		"diseaseOrPest": str("The identified disease or pest."),
		"confidence":    confidence(),
	}, "diseaseOrPest", "confidence"),
	"solutions":            list(str("A recommended solution."), "Recommended solutions.", 0),
	"preventativeMeasures": list(str("A preventative measure."), "Preventative measures.", 0),
}, "identification", "solutions", "preventativeMeasures")

var weedSchema = object(map[string]*genai.Schema{
	"identification": object(map[string]*genai.Schema{
		"weedName":       str("The common name of the weed."),
		"scientificName": str("The scientific name of the weed."),
		"confidence":     confidence(),
		"description":    str("A brief description of the weed and its impact on crops."),
	}, "weedName", "scientificName", "confidence", "description"),
	"controlMethods": list(object(map[string]*genai.Schema{
		"type":        enum("The kind of control method.", controlTypes),
		"name":        str("The method or product name."),
		"description": str("How to apply the method."),
	}, "type", "name", "description"), "Manual, organic and chemical control methods.", 0),
}, "identification", "controlMethods")
