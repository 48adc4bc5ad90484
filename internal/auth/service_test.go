package auth_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/auth"
)

// fakeCredentialStore implements auth.CredentialStore in memory.
type fakeCredentialStore struct {
	users map[string]auth.User
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{users: make(map[string]auth.User)}
}

func (s *fakeCredentialStore) Find(username string) (auth.User, error) {
	user, ok := s.users[username]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeCredentialStore) Create(user auth.User) error {
	if _, ok := s.users[user.Username]; ok {
		return auth.ErrDuplicateUsername
	}
	s.users[user.Username] = user
	return nil
}

func (s *fakeCredentialStore) UpdatePassword(username, hashedPassword string) error {
	user, ok := s.users[username]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.HashedPassword = hashedPassword
	s.users[username] = user
	return nil
}

func newService(t *testing.T) (*auth.Service, *fakeCredentialStore) {
	t.Helper()
	store := newFakeCredentialStore()
	return auth.NewService(store, zerolog.Nop()), store
}

func TestRegister_HashesPassword(t *testing.T) {
	service, store := newService(t)

	if err := service.Register("alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user := store.users["alice"]
	if user.HashedPassword == "s3cret" || user.HashedPassword == "" {
		t.Fatalf("password stored without hashing: %q", user.HashedPassword)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service, store := newService(t)

	if err := service.Register("alice", "first"); err != nil {
		t.Fatalf("register: %v", err)
	}
	firstHash := store.users["alice"].HashedPassword

	err := service.Register("alice", "second")
	if !errors.Is(err, auth.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if store.users["alice"].HashedPassword != firstHash {
		t.Error("first user's hash changed on duplicate register")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	service, _ := newService(t)

	if err := service.Register("alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	username, err := service.Authenticate("alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if username != "alice" {
		t.Errorf("expected alice, got %q", username)
	}
}

// Unknown user and wrong password must fail with the same error so callers
// can't distinguish them.
func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	service, _ := newService(t)

	if err := service.Register("alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassErr := service.Authenticate("alice", "not-it")
	_, unknownUserErr := service.Authenticate("nobody", "whatever")

	if !errors.Is(wrongPassErr, auth.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassErr)
	}
	if !errors.Is(unknownUserErr, auth.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", unknownUserErr)
	}
}

func TestChangePassword(t *testing.T) {
	service, _ := newService(t)

	if err := service.Register("alice", "old-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := service.ChangePassword("alice", "wrong", "new-pass"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := service.ChangePassword("alice", "old-pass", "new-pass"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := service.Authenticate("alice", "new-pass"); err != nil {
		t.Errorf("new password does not authenticate: %v", err)
	}
	if _, err := service.Authenticate("alice", "old-pass"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("old password still authenticates")
	}
}
