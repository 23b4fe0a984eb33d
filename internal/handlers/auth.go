package handlers

import (
	"net/http"
	"strings"
	"time"

	"pulperia-go/internal/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type userRead struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
	CreatedAt string `json:"created_at,omitempty"`
	IsActive  bool   `json:"is_active"`
}

func toUserRead(u store.User) userRead {
	ur := userRead{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Rol:      u.Rol,
		IsActive: u.IsActive,
	}
	if !u.CreatedAt.IsZero() {
		ur.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return ur
}

func (s *Server) RegisterPost(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if len(req.Username) < 3 || len(req.Username) > 50 {
		s.writeError(w, http.StatusBadRequest, "El nombre de usuario debe tener entre 3 y 50 caracteres")
		return
	}
	if !strings.Contains(req.Email, "@") {
		s.writeError(w, http.StatusBadRequest, "Email inválido")
		return
	}
	if len(req.Password) < 6 {
		s.writeError(w, http.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres")
		return
	}

	u, err := s.App.Auth().Register(req.Username, req.Email, req.Password, req.Rol)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserRead(u))
}

// LoginPost implements the OAuth2 password flow: form-encoded credentials in,
// bearer token out.
func (s *Server) LoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "Formulario inválido")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, ok := s.App.Auth().Authenticate(username, password)
	if !ok || !u.IsActive {
		s.writeError(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
		return
	}

	token, err := s.App.CreateAccessToken(u.Username)
	if err != nil {
		s.App.Log().Error("create access token", "err", err)
		s.writeError(w, http.StatusInternalServerError, "No se pudo emitir el token")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) UsersGet(w http.ResponseWriter, r *http.Request) {
	users := s.App.Auth().List()
	out := make([]userRead, 0, len(users))
	for _, u := range users {
		out = append(out, toUserRead(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) MeGet(w http.ResponseWriter, r *http.Request) {
	u := s.App.CurrentUser(r)
	s.writeJSON(w, http.StatusOK, toUserRead(*u))
}
