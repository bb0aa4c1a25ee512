package handlers

import (
	"adcraft/internal/controller"
	"adcraft/internal/domain/adcopy"
	"adcraft/internal/session"
)

type resultView struct {
	adcopy.AdResponse
	DisplayHashtags string `json:"displayHashtags"`
	PlainText       string `json:"plainText"`
}

type stateView struct {
	Phase   controller.Phase `json:"phase"`
	Seq     uint64           `json:"seq,omitempty"`
	Result  *resultView      `json:"result,omitempty"`
	Message string           `json:"message,omitempty"`
}

type sessionView struct {
	ID     string           `json:"id"`
	Locale string           `json:"locale,omitempty"`
	Form   adcopy.AdRequest `json:"form"`
	State  stateView        `json:"state"`
}

func newResultView(res *adcopy.AdResponse) *resultView {
	if res == nil {
		return nil
	}
	return &resultView{
		AdResponse:      *res,
		DisplayHashtags: res.DisplayHashtags(),
		PlainText:       res.PlainText(),
	}
}

func newStateView(st controller.State) stateView {
	v := stateView{Phase: st.Phase, Seq: st.Seq}
	switch st.Phase {
	case controller.PhaseSuccess:
		v.Result = newResultView(st.Result)
	case controller.PhaseError:
		v.Message = st.Message
	}
	return v
}

func newSessionView(sess *session.Session) sessionView {
	ctrl := sess.Controller
	return sessionView{
		ID:     sess.ID,
		Locale: ctrl.Locale(),
		Form:   ctrl.Request(),
		State:  newStateView(ctrl.State()),
	}
}
