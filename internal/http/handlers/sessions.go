package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"

	"adcraft/internal/controller"
	"adcraft/internal/domain/adcopy"
	"adcraft/internal/middleware"
)

// localeKey in a form patch sets the output language hint instead of a field.
const localeKey = "locale"

// formPatch maps form field names ("productName", "platform", ...) to their
// text values.
type formPatch map[string]string

type submitResponse struct {
	Seq     uint64    `json:"seq"`
	Applied *bool     `json:"applied,omitempty"`
	State   stateView `json:"state"`
}

// SessionsCreate opens a new form, optionally pre-filled from the body. The
// session locale comes from the request unless the body names one.
func (a *App) SessionsCreate(w http.ResponseWriter, r *http.Request) {
	patch, ok := a.decodePatch(w, r, true)
	if !ok {
		return
	}
	sess := a.Sessions.Create(middleware.LocaleFromContext(r.Context()))
	if err := applyPatch(sess.Controller, patch); err != nil {
		_ = a.Sessions.Delete(sess.ID)
		a.formError(w, err)
		return
	}
	a.json(w, http.StatusCreated, newSessionView(sess))
}

func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, newSessionView(sess))
}

// SessionUpdateForm applies every entry of the patch or none of them.
func (a *App) SessionUpdateForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	patch, ok := a.decodePatch(w, r, false)
	if !ok {
		return
	}
	if err := applyPatch(sess.Controller, patch); err != nil {
		a.formError(w, err)
		return
	}
	a.json(w, http.StatusOK, newSessionView(sess))
}

// SessionSubmit starts a generation. With ?wait=true it blocks until this
// submission finishes and reports its own outcome, including whether a newer
// submission or a reset superseded it.
func (a *App) SessionSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

	sub := sess.Controller.Submit(r.Context())
	if !wait {
		a.json(w, http.StatusAccepted, submitResponse{Seq: sub.Seq, State: newStateView(sess.Controller.State())})
		return
	}

	ctx := r.Context()
	if a.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.WaitTimeout)
		defer cancel()
	}
	st, err := sub.Wait(ctx)
	if err != nil {
		// Still running; the events stream or a later GET reports the outcome.
		a.json(w, http.StatusAccepted, submitResponse{Seq: sub.Seq, State: newStateView(sess.Controller.State())})
		return
	}
	applied := sub.Applied()
	a.json(w, http.StatusOK, submitResponse{Seq: sub.Seq, Applied: &applied, State: newStateView(st)})
}

func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	sess.Controller.Reset()
	a.json(w, http.StatusOK, newSessionView(sess))
}

func (a *App) SessionDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	_ = a.Sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) decodePatch(w http.ResponseWriter, r *http.Request, optional bool) (formPatch, bool) {
	var patch formPatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if optional && errors.Is(err, io.EOF) {
		return nil, true
	}
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return nil, false
	}
	return patch, true
}

func (a *App) formError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adcopy.ErrUnknownField):
		a.error(w, http.StatusUnprocessableEntity, "unknown_field", err.Error())
	case errors.Is(err, adcopy.ErrUnknownOption):
		a.error(w, http.StatusUnprocessableEntity, "unknown_option", err.Error())
	default:
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

// applyPatch validates and applies the form entries as one change on the
// controller, so a bad entry leaves the form unchanged.
func applyPatch(ctrl *controller.Controller, patch formPatch) error {
	updates := make([]controller.FieldUpdate, 0, len(patch))
	locale, setLocale := "", false
	for _, key := range slices.Sorted(maps.Keys(patch)) {
		value := patch[key]
		if key == localeKey {
			locale, setLocale = value, true
			continue
		}
		field, err := adcopy.ParseField(key)
		if err != nil {
			return err
		}
		updates = append(updates, controller.FieldUpdate{Field: field, Value: value})
	}

	if err := ctrl.UpdateFields(updates); err != nil {
		return err
	}
	if setLocale {
		ctrl.SetLocale(locale)
	}
	return nil
}
