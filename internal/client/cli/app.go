package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/client/session"
	"github.com/dmitrijs2005/matrimo/internal/logging"
)

type Mode string

var errNoSession = errors.New("cli: no session in context")

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Session is what the console needs from session.Manager.
type Session interface {
	State() session.State
	CheckAuthStatus(ctx context.Context) session.Destination
	Login(ctx context.Context, email string, password []byte) session.Result
	Register(ctx context.Context, reg models.Registration) session.Result
	Logout(ctx context.Context) session.Result
	UpdateUser(ctx context.Context, patch models.UserPatch)
	ForgotPassword(ctx context.Context, email string) session.Result
	VerifyResetOTP(ctx context.Context, email, otp string) session.Result
	ResetPassword(ctx context.Context, email, otp string, newPassword []byte) session.Result
}

// Pinger reports whether the server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

type App struct {
	session Session
	pinger  Pinger
	log     logging.Logger
	opts    Options

	reader *bufio.Reader
	out    io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(s Session, p Pinger, log logging.Logger, opts Options, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &App{
		session: s,
		pinger:  p,
		log:     log,
		opts:    opts,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// NewAppFromContext builds the console around the Manager installed in ctx
// with session.NewContext.
func NewAppFromContext(ctx context.Context, p Pinger, log logging.Logger, opts Options, in io.Reader, out io.Writer) (*App, error) {
	m, ok := session.FromContext(ctx)
	if !ok {
		return nil, errNoSession
	}
	return NewApp(m, p, log, opts, in, out), nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// commandContext bounds one command by the configured request timeout.
func (a *App) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.opts.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.opts.RequestTimeout)
}

// Run restores the session, starts the connectivity watcher and serves the
// prompt until the user quits, input ends, or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to matrimo (type 'help' for commands)")

	a.checkOnline(ctx)

	switch a.session.CheckAuthStatus(ctx) {
	case session.DestinationHome:
		if u := a.session.State().User; u != nil {
			a.printf("Welcome back, %s!\n", displayName(u))
		}
	default:
		a.println("You are not logged in. Type 'register' to create an account or 'login' to sign in.")
	}

	watchCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if a.opts.OnlineCheckInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.StartOnlineStatusWatcher(watchCtx, a.opts.OnlineCheckInterval)
		}()
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)

	stop()
	wg.Wait()
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.pinger.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if u := a.session.State().User; u != nil {
		s = u.Email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func displayName(u *models.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
