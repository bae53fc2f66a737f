package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/client/services"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
)

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		out = append(out, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func stubInputs(t *testing.T, texts []string, secrets ...[]byte) {
	t.Helper()
	origST, origGP, origPin := getSimpleText, getPassword, getPin
	t.Cleanup(func() {
		getSimpleText, getPassword, getPin = origST, origGP, origPin
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	next := func(_ io.Writer) ([]byte, error) {
		if len(secrets) == 0 {
			return nil, io.EOF
		}
		v := secrets[0]
		secrets = secrets[1:]
		return append([]byte(nil), v...), nil
	}
	getPassword = next
	getPin = next
}

func machineWith(t *testing.T, state session.LockState, s *models.Session) *session.Machine {
	t.Helper()
	m := session.NewMachine()
	if state != session.Loading {
		if err := m.Resolve(state, s); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	return m
}

// ---- fake services ----

type fakeAuth struct {
	machine *session.Machine

	loginEmail string
	loginPass  []byte
	loginErr   error

	regEmail, regName string
	regPass           []byte
	regErr            error

	logoutCalled bool
	logoutErr    error

	pingErr error
}

func (f *fakeAuth) Login(_ context.Context, email string, pass []byte) (*models.Session, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	s := &models.Session{Token: "t", User: &models.UserProfile{ID: 1, Email: email}}
	if f.machine != nil {
		_ = f.machine.SignIn(s)
	}
	return s, nil
}

func (f *fakeAuth) Register(_ context.Context, email string, pass []byte, name string) (*models.Session, error) {
	f.regEmail, f.regName, f.regPass = email, name, append([]byte(nil), pass...)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.Session{Token: "t", User: &models.UserProfile{ID: 2, Email: email, FullName: name}}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr == nil && f.machine != nil {
		_ = f.machine.SignOut()
	}
	return f.logoutErr
}

func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

type fakePin struct {
	machine *session.Machine
	code    string

	attempts []string
	setCode  string
	setErr   error
	cleared  bool
	unlockFn func(code string) error
}

func (f *fakePin) Unlock(_ context.Context, code string) error {
	f.attempts = append(f.attempts, code)
	if f.unlockFn != nil {
		return f.unlockFn(code)
	}
	if code != f.code {
		return services.ErrPinMismatch
	}
	return f.machine.Unlock()
}

func (f *fakePin) IsConfigured(context.Context) (bool, error) { return f.code != "", nil }

func (f *fakePin) Set(_ context.Context, code string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCode = code
	f.code = code
	return nil
}

func (f *fakePin) Clear(context.Context) error {
	f.cleared = true
	f.code = ""
	return nil
}

type fakePrefs struct {
	prefs     models.Preferences
	loadErr   error
	updateErr error
	updated   []models.Preferences
}

func (f *fakePrefs) Load(context.Context, *models.Session) (models.Preferences, error) {
	return f.prefs, f.loadErr
}

func (f *fakePrefs) Update(_ context.Context, _ *models.Session, p models.Preferences) error {
	f.updated = append(f.updated, p)
	f.prefs = p
	return f.updateErr
}

type fakeBoot struct {
	machine *session.Machine
	state   session.LockState
	session *models.Session
	calls   int
}

func (f *fakeBoot) Run(context.Context) session.Snapshot {
	f.calls++
	_ = f.machine.Resolve(f.state, f.session)
	return f.machine.Snapshot()
}
