package http

import (
	"net/http"
	"net/url"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

func (s *Server) LoginFunc(w http.ResponseWriter, r *http.Request) {
	consent, err := s.auth.BeginLogin(r.Context(), mux.Vars(r)["provider"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	http.Redirect(w, r, consent, http.StatusFound)
}

func (s *Server) CallbackFunc(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	q := r.URL.Query()
	_, token, err := s.auth.CompleteLogin(r.Context(), provider, q.Get("state"), q.Get("code"))
	if err != nil {
		glog.Warningf("%s login failed: %v", provider, err)
		http.Redirect(w, r, s.frontendURL("error", "auth_failed"), http.StatusFound)
		return
	}
	http.SetCookie(w, s.sessionCookie(token, s.auth.SessionTTL()))
	http.Redirect(w, r, s.frontendURL("auth", "success"), http.StatusFound)
}

func (s *Server) CurrentUserFunc(w http.ResponseWriter, r *http.Request) {
	player := s.player(r)
	if player == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": player})
}

func (s *Server) LogoutFunc(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

func (s *Server) frontendURL(key, value string) string {
	base := s.cfg.FrontendURL
	if base == "" {
		base = "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return "/?" + key + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
