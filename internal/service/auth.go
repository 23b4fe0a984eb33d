package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"pulperia-go/internal/store"

	"github.com/lucsky/cuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns user accounts: registration, credential checks, lookups.
// Token signing lives in the app package next to the signing key.
type AuthService struct {
	mu         sync.Mutex
	st         *store.Store
	log        *slog.Logger
	users      map[string]*store.User
	byUsername map[string]*store.User
	byEmail    map[string]*store.User
}

func NewAuth(st *store.Store, log *slog.Logger) (*AuthService, error) {
	items, err := st.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("load usuarios: %w", err)
	}
	s := &AuthService{
		st:         st,
		log:        log,
		users:      map[string]*store.User{},
		byUsername: map[string]*store.User{},
		byEmail:    map[string]*store.User{},
	}
	for _, u := range items {
		s.users[u.ID] = u
		s.byUsername[u.Username] = u
		s.byEmail[u.Email] = u
	}
	log.Info("users loaded", "users", len(s.users))
	return s, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) persistLocked() error {
	items := make([]*store.User, 0, len(s.users))
	for _, u := range s.users {
		items = append(items, u)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return s.st.SaveUsers(items)
}

// Register creates a user. Duplicate checks are case-sensitive exact matches
// on username and email.
func (s *AuthService) Register(username, email, password, rol string) (store.User, error) {
	rol = strings.TrimSpace(rol)
	if rol == "" {
		rol = store.RolEmpleado
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[username]; ok {
		return store.User{}, fmt.Errorf("El nombre de usuario '%s' ya está registrado", username)
	}
	if _, ok := s.byEmail[email]; ok {
		return store.User{}, fmt.Errorf("El email '%s' ya está registrado", email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return store.User{}, err
	}

	u := &store.User{
		ID:             cuid.New(),
		Username:       username,
		Email:          email,
		Rol:            strings.ToLower(rol),
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	s.users[u.ID] = u
	s.byUsername[u.Username] = u
	s.byEmail[u.Email] = u
	if err := s.persistLocked(); err != nil {
		return store.User{}, err
	}
	s.log.Info("user registered", "username", username, "rol", u.Rol)
	return *u, nil
}

// Authenticate verifies username + password. No lockout, no rate limiting:
// the caller gets a plain yes/no.
func (s *AuthService) Authenticate(username, password string) (store.User, bool) {
	s.mu.Lock()
	u, ok := s.byUsername[username]
	s.mu.Unlock()
	if !ok {
		return store.User{}, false
	}
	if !CheckPassword(u.HashedPassword, password) {
		return store.User{}, false
	}
	return *u, true
}

func (s *AuthService) GetByUsername(username string) (store.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byUsername[username]
	if !ok {
		return store.User{}, false
	}
	return *u, true
}

func (s *AuthService) List() []store.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *AuthService) HasAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}
