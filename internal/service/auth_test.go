package service

import (
	"strings"
	"testing"

	"pulperia-go/internal/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	auth, err := NewAuth(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}

	u, err := auth.Register("maria", "maria@pulperia.test", "secreto1", store.RolMesero)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Rol != store.RolMesero {
		t.Fatalf("Rol = %s", u.Rol)
	}
	if !u.IsActive {
		t.Fatal("new user should be active")
	}
	if u.HashedPassword == "secreto1" {
		t.Fatal("password stored in the clear")
	}

	if _, ok := auth.Authenticate("maria", "secreto1"); !ok {
		t.Fatal("correct password rejected")
	}
	if _, ok := auth.Authenticate("maria", "equivocada"); ok {
		t.Fatal("wrong password accepted")
	}
	if _, ok := auth.Authenticate("nadie", "secreto1"); ok {
		t.Fatal("unknown user accepted")
	}
}

func TestRegisterDuplicates(t *testing.T) {
	auth, err := NewAuth(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	if _, err := auth.Register("maria", "maria@pulperia.test", "secreto1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err = auth.Register("maria", "otra@pulperia.test", "secreto1", "")
	if err == nil || !strings.Contains(err.Error(), "'maria' ya está registrado") {
		t.Fatalf("duplicate username err = %v", err)
	}
	_, err = auth.Register("otra", "maria@pulperia.test", "secreto1", "")
	if err == nil || !strings.Contains(err.Error(), "ya está registrado") {
		t.Fatalf("duplicate email err = %v", err)
	}
}

func TestRegisterDefaultRol(t *testing.T) {
	auth, err := NewAuth(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	u, err := auth.Register("pepe", "pepe@pulperia.test", "secreto1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Rol != store.RolEmpleado {
		t.Fatalf("default Rol = %s, want empleado", u.Rol)
	}
	if u.IsAdmin() {
		t.Fatal("empleado must not be admin")
	}
}

func TestHasAdmin(t *testing.T) {
	auth, err := NewAuth(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	if auth.HasAdmin() {
		t.Fatal("fresh store should have no admin")
	}
	if _, err := auth.Register("jefa", "jefa@pulperia.test", "secreto1", store.RolAdministrador); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !auth.HasAdmin() {
		t.Fatal("admin not detected")
	}
}

func TestUsersSurviveReload(t *testing.T) {
	st := testStore(t)
	auth, err := NewAuth(st, testLogger())
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	if _, err := auth.Register("maria", "maria@pulperia.test", "secreto1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	reloaded, err := NewAuth(st, testLogger())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Authenticate("maria", "secreto1"); !ok {
		t.Fatal("user lost across reload")
	}
}
