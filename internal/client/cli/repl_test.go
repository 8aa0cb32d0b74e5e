package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	err      error
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return f.err
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) ForgotPassword(ctx context.Context) error {
	f.calls = append(f.calls, "forgot")
	return nil
}
func (f *fakeExec) Profile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return nil
}
func (f *fakeExec) EditProfile(ctx context.Context) error {
	f.calls = append(f.calls, "edit")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_OnboardingToHomeAndBack(t *testing.T) {
	input := rdr("help\nprofile\nforgot\nlogin\nhelp\nprofile\nedit\nlogin\nLOGOUT\nfoobar\nexit\nregister\n")
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "(status)" }, input, &out)

	assert.Equal(t, []string{"forgot", "login", "profile", "edit", "logout"}, exec.calls)
	assert.Contains(t, out.String(), "Available commands: register, login, forgot, exit")
	assert.Contains(t, out.String(), "Available commands: profile, edit, logout, exit")
	assert.Contains(t, out.String(), "Unknown command: profile")
	assert.Contains(t, out.String(), "Unknown command: login")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "matrimo (status)> ")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("\n  \nregister"), &out)
	require.Equal(t, []string{"register"}, exec.calls)
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	exec := &fakeExec{err: errors.New("unexpected EOF")}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("register\nquit\n"), &out)
	assert.Contains(t, out.String(), "Error: unexpected EOF")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(ctx, exec, func() string { return "" }, rdr("register\n"), &out)
	assert.Empty(t, exec.calls)
}
