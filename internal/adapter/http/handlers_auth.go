package adapthttp

import (
	"errors"
	"net/http"

	"rockbuster/internal/app"
)

const (
	registerPath = "/auth/register"

	// Identical for a missing account and a wrong password; the logs
	// keep the two apart, the response never does.
	msgBadCredentials = "Incorrect email or password"
	msgGenericFault   = "Oops, something went wrong"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render.Render(w, http.StatusOK, "login.html", s.page(w, r, "Login", nil))
	case http.MethodPost:
		s.loginSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	secret := r.PostFormValue("password")

	user, err := s.auth.Authenticate(r.Context(), email, secret)
	switch {
	case errors.Is(err, app.ErrNoSuchIdentity):
		s.log.Info("login rejected", "reason", "no such identity", "email", email)
		setFlash(w, flashError, msgBadCredentials)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	case errors.Is(err, app.ErrBadSecret):
		s.log.Info("login rejected", "reason", "bad secret", "email", email)
		setFlash(w, flashError, msgBadCredentials)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	case err != nil:
		s.log.Error("login failed", "err", err)
		setFlash(w, flashError, msgGenericFault)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	token, err := s.sessions.Mint(r.Context(), user)
	if err != nil {
		s.log.Error("session mint failed", "err", err)
		setFlash(w, flashError, msgGenericFault)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	setSessionCookie(w, token, s.sessions.TTL())
	http.Redirect(w, r, landingPath, http.StatusFound)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render.Render(w, http.StatusOK, "register.html", s.page(w, r, "Sign Up", nil))
	case http.MethodPost:
		s.registerSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	secret := r.PostFormValue("password")

	if name == "" || email == "" || secret == "" {
		setFlash(w, flashError, "Name, email and password are required")
		http.Redirect(w, r, registerPath, http.StatusFound)
		return
	}

	_, err := s.auth.Register(r.Context(), name, email, secret)
	switch {
	case errors.Is(err, app.ErrDuplicateIdentity):
		setFlash(w, flashError, "An account with this email already exists")
		http.Redirect(w, r, registerPath, http.StatusFound)
		return
	case err != nil:
		s.log.Error("register failed", "err", err)
		setFlash(w, flashError, msgGenericFault)
		http.Redirect(w, r, registerPath, http.StatusFound)
		return
	}

	// Registration success is not a login; the new account still has
	// to authenticate.
	setFlash(w, flashNotice, "Account created, please log in")
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render.Render(w, http.StatusOK, "account.html", s.page(w, r, "My Account", nil))
	case http.MethodPost:
		s.deregisterSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) deregisterSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	err := s.auth.Deregister(r.Context(), user, sessionToken(r))
	clearSessionCookie(w)
	if err != nil {
		s.log.Error("deregister failed", "err", err)
		setFlash(w, flashError, msgGenericFault)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	setFlash(w, flashNotice, "Successfully unsubscribed")
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Invalidate(r.Context(), sessionToken(r)); err != nil {
		// The cookie is cleared regardless; the stale record expires on
		// its own.
		s.log.Error("logout invalidate failed", "err", err)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, loginPath, http.StatusFound)
}
