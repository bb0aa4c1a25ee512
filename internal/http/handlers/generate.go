package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"adcraft/internal/controller"
	"adcraft/internal/domain/adcopy"
	"adcraft/internal/middleware"
	"adcraft/internal/providers/copywriter"
)

// Generate is the stateless variant of submit: the body is a complete
// AdRequest (omitted options take their defaults) and the reply is the copy.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	req := adcopy.DefaultAdRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, adcopy.ErrUnknownOption) {
			a.error(w, http.StatusUnprocessableEntity, "unknown_option", err.Error())
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	var verr *adcopy.ValidationError
	if err := req.Validate(); errors.As(err, &verr) {
		a.error(w, http.StatusBadRequest, "validation", verr.Message)
		return
	}

	res, err := a.Generator.Generate(r.Context(), copywriter.Request{
		Ad:     req,
		Locale: middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("generate failed")
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
		return
	}
	if res == nil {
		a.error(w, http.StatusBadGateway, "generation_failed", controller.FallbackMessage)
		return
	}
	a.json(w, http.StatusOK, newResultView(res))
}
