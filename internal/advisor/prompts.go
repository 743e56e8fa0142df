package advisor

import (
	"strings"
	"text/template"
)

var cropAdvicePrompt = template.Must(template.New("cropAdvice").Parse(
	`You are an expert agricultural economist and agronomist for Indian farming conditions.
Your task is to recommend the most profitable and suitable crops for a farmer.

Farmer's details:
- Location: {{.Location}}
- Soil Type: {{.SoilType}}
- Budget per Acre: ₹{{.Budget}}
- Farm Size: {{.FarmSize}} acres

Based on this information, current market trends and the typical climate for the location, recommend up to 3 crops.
For each crop include the reason, estimated profit per acre and ideal sowing time.
Also give a brief summary of your recommendation strategy.
`))

var pestPredictionPrompt = template.Must(template.New("pestPrediction").Parse(
	`You are an expert agricultural entomologist and plant pathologist.
Predict the risk of common pests and diseases for a crop from its location and the upcoming weather.

Location: {{.Location}}
Crop: {{.CropType}}
5-Day Weather Forecast:
{{.Forecast}}

Give the risk level (Low, Medium, High) for 2-3 common pests and 2-3 common diseases of this crop.
For each, cite the weather behind the risk and suggest a key preventative action.
Finish with a brief summary of the risk profile for the coming days.
`))

var irrigationPrompt = template.Must(template.New("irrigation").Parse(
	`You are a precision agriculture specialist. Create a 7-day smart irrigation schedule for a farmer.

Farmer's details:
- Location: {{.Location}}
- Crop: {{.CropType}}
- 7-Day Weather Forecast:
{{.Forecast}}

Based on the crop's water needs and the forecast, give a watering recommendation for each of the next 7 days:
the recommendation, the reason and the estimated amount of water if any.
Finish with a summary of the weekly plan and water-saving tips.
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

var farmReportPrompt = template.Must(template.New("farmReport").Parse(
	`You are an expert agricultural analyst. Generate a performance report for a farm.

Farmer's details:
- Crop: {{.CropType}}
- Farm Size: {{.FarmSize}} acres
- Last Year's Yield: {{.LastYearsYield}} quintals
- Current Market Price: ₹{{.Price}} per quintal

Estimate:
1. Total revenue: last year's yield multiplied by the current market price.
2. Crop health: an overall percentage. Assume generally good conditions with minor issues; 85-95% is typical.
3. Yield trend: a realistic monthly yield for the past 6 months, together roughly half of last year's yield, with some variation.
4. A one-sentence summary each for the revenue and the health score.
`))

var soilAnalysisPrompt = template.Must(template.New("soilAnalysis").Parse(
	`You are an expert soil scientist and agronomist. Analyze the attached photo of a soil sample.

Determine the soil type and estimate its pH and organic matter content.
From the soil properties, the location ({{.Location}}) and the season ({{.Season}}), recommend suitable crops with reasons.
Rate the key nutrients (Nitrogen, Phosphorus, Potassium) as Low, Medium or High, and give actionable tips for improving the soil.
`))

const cropProblemPrompt = `You are an expert in plant pathology and entomology.
Identify the disease or pest affecting the plant in the attached photo, using the photo as the primary source of information.
Give a confidence score between 0 and 1 for the identification, recommended solutions and preventative measures.
`

const weedPrompt = `You are an expert botanist specializing in weed identification and control on farms.
Identify the weed in the attached photo and provide:
1. Its common and scientific name.
2. A confidence score between 0 and 1.
3. A brief description of the weed and why it is a problem for crops.
4. Control methods of each type (Manual, Organic, Chemical), each with a name and a clear description of the process.
`
