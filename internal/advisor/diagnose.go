package advisor

import (
	"context"
	"fmt"
)

var (
	nutrientLevels = []string{"Low", "Medium", "High"}
	controlTypes   = []string{"Manual", "Organic", "Chemical"}
)

type SoilAnalysisInput struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required"`
	Location     string `json:"location" validate:"required"`
	Season       string `json:"season" validate:"required"`
}

type NutrientLevel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RecommendedCrop struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type SoilAnalysis struct {
	SoilType                string            `json:"soilType"`
	PHLevel                 float64           `json:"phLevel"`
	OrganicMatterPercentage float64           `json:"organicMatterPercentage"`
	NutrientLevels          []NutrientLevel   `json:"nutrientLevels"`
	RecommendedCrops        []RecommendedCrop `json:"recommendedCrops"`
	SoilImprovementTips     []string          `json:"soilImprovementTips"`
}

// PhotoInput carries a single photo as a data URI.
type PhotoInput struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required"`
}

type CropProblem struct {
	Identification struct {
		DiseaseOrPest string  `json:"diseaseOrPest"`
		Confidence    float64 `json:"confidence"`
	} `json:"identification"`
	Solutions            []string `json:"solutions"`
	PreventativeMeasures []string `json:"preventativeMeasures"`
}

type WeedControl struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WeedIdentification struct {
	Identification struct {
		WeedName       string  `json:"weedName"`
		ScientificName string  `json:"scientificName"`
		Confidence     float64 `json:"confidence"`
		Description    string  `json:"description"`
	} `json:"identification"`
	ControlMethods []WeedControl `json:"controlMethods"`
}

func (a *Advisor) SoilAnalysis(ctx context.Context, in SoilAnalysisInput) (SoilAnalysis, error) {
	if !a.Available() {
		return SoilAnalysis{}, ErrUnavailable
	}
	img, err := ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return SoilAnalysis{}, err
	}
	prompt, err := render(soilAnalysisPrompt, in)
	if err != nil {
		return SoilAnalysis{}, err
	}

	var out SoilAnalysis
	req := Request{Name: "soilAnalysis", Prompt: prompt, Schema: soilAnalysisSchema, Images: []Image{img}}
	if err := a.complete(ctx, req, &out); err != nil {
		return SoilAnalysis{}, err
	}
	if out.PHLevel < 0 || out.PHLevel > 14 {
		return SoilAnalysis{}, &CompletionError{Flow: req.Name, Reason: fmt.Sprintf("pH %.1f out of range", out.PHLevel)}
	}
	for i, n := range out.NutrientLevels {
		// Free-text levels such as "Adequate" are kept as given.
		if level, ok := canonical(n.Value, nutrientLevels); ok {
			out.NutrientLevels[i].Value = level
		}
	}
	return out, nil
}

// IdentifyCropProblem diagnoses a disease or pest from a plant photo.
func (a *Advisor) IdentifyCropProblem(ctx context.Context, in PhotoInput) (CropProblem, error) {
	if !a.Available() {
		return CropProblem{}, ErrUnavailable
	}
	img, err := ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return CropProblem{}, err
	}

	var out CropProblem
	req := Request{Name: "cropProblem", Prompt: cropProblemPrompt, Schema: cropProblemSchema, Images: []Image{img}}
	if err := a.complete(ctx, req, &out); err != nil {
		return CropProblem{}, err
	}
	if err := checkConfidence(req.Name, out.Identification.Confidence); err != nil {
		return CropProblem{}, err
	}
	return out, nil
}

// IdentifyWeed names the weed in a photo and lists control methods.
func (a *Advisor) IdentifyWeed(ctx context.Context, in PhotoInput) (WeedIdentification, error) {
	if !a.Available() {
		return WeedIdentification{}, ErrUnavailable
	}
	img, err := ParseDataURI(in.PhotoDataURI)
	if err != nil {
		return WeedIdentification{}, err
	}

	var out WeedIdentification
	req := Request{Name: "weedIdentification", Prompt: weedPrompt, Schema: weedSchema, Images: []Image{img}}
	if err := a.complete(ctx, req, &out); err != nil {
		return WeedIdentification{}, err
	}
	if err := checkConfidence(req.Name, out.Identification.Confidence); err != nil {
		return WeedIdentification{}, err
	}
	for i, m := range out.ControlMethods {
		kind, ok := canonical(m.Type, controlTypes)
		if !ok {
			return WeedIdentification{}, &CompletionError{Flow: req.Name, Reason: fmt.Sprintf("invalid control type %q", m.Type)}
		}
		out.ControlMethods[i].Type = kind
	}
	return out, nil
}

func checkConfidence(flow string, v float64) error {
	if v < 0 || v > 1 {
		return &CompletionError{Flow: flow, Reason: fmt.Sprintf("confidence %.2f outside [0, 1]", v)}
	}
	return nil
}
