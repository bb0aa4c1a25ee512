package handlers

import (
	"net/http"

	"adcraft/internal/domain/adcopy"
)

type optionView struct {
	Value string `json:"value"`
	ID    string `json:"id"`
}

type optionsResponse struct {
	Platforms []optionView     `json:"platforms"`
	Tones     []optionView     `json:"tones"`
	Lengths   []optionView     `json:"lengths"`
	Defaults  adcopy.AdRequest `json:"defaults"`
}

type labeled interface {
	String() string
	Ident() string
}

func optionViews[T labeled](values []T) []optionView {
	out := make([]optionView, 0, len(values))
	for _, v := range values {
		out = append(out, optionView{Value: v.String(), ID: v.Ident()})
	}
	return out
}

// Options lists the selectable values of the form's dropdowns.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, optionsResponse{
		Platforms: optionViews(adcopy.Platforms()),
		Tones:     optionViews(adcopy.Tones()),
		Lengths:   optionViews(adcopy.Lengths()),
		Defaults:  adcopy.DefaultAdRequest(),
	})
}
