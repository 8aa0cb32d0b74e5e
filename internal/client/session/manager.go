package session

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/client/client"
	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/logging"
	"github.com/google/uuid"
)

type op struct {
	ctx   context.Context
	name  string
	run   func(ctx context.Context, log logging.Logger) Result
	reply chan Result

	// detached ops ignore cancellation and still run after Close.
	detached bool
}

// Manager holds the session. Use New to create one and Close to stop it.
type Manager struct {
	client client.Client
	store  Store
	log    logging.Logger
	now    func() time.Time

	ops       chan op
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	inline    sync.Mutex

	mu       sync.RWMutex
	user     *models.User
	starting bool
	pending  int
	closed   bool
	subs     map[uint64]chan State
	nextSub  uint64
}

// New starts the worker. The Manager begins in the loading state until the
// first CheckAuthStatus completes.
func New(c client.Client, store Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}

	m := &Manager{
		client:   c,
		store:    store,
		log:      log.With("component", "session"),
		now:      time.Now,
		ops:      make(chan op),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		starting: true,
		subs:     make(map[uint64]chan State),
	}

	c.OnTokensRefreshed(m.tokensRefreshed)

	go m.loop()
	return m
}

func (m *Manager) loop() {
	defer close(m.done)
	for {
		select {
		case o := <-m.ops:
			o.reply <- m.execute(o)
		case <-m.quit:
			return
		}
	}
}

func (m *Manager) execute(o op) (res Result) {
	log := m.log.With("op", o.name, "op_id", uuid.NewString())

	defer func() {
		if p := recover(); p != nil {
			log.Error(o.ctx, "operation panicked", "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			res = Result{Error: MsgGeneric}
		}
	}()

	if o.ctx.Err() != nil {
		return canceled()
	}

	log.Debug(o.ctx, "operation started")
	res = o.run(o.ctx, log)
	log.Debug(o.ctx, "operation finished", "success", res.Success, "canceled", res.Canceled)
	return res
}

// submit hands fn to the worker and waits for its result. The loading flag
// covers the whole wait, queueing included.
func (m *Manager) submit(ctx context.Context, name string, fn func(ctx context.Context, log logging.Logger) Result) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return m.dispatch(op{ctx: ctx, name: name, run: fn})
}

// submitDetached is submit for work that has to finish whatever happens to
// ctx. fn gets a context that is never cancelled. Once the worker has
// stopped, fn runs on the caller's goroutine, one call at a time.
func (m *Manager) submitDetached(ctx context.Context, name string, fn func(ctx context.Context, log logging.Logger) Result) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return m.dispatch(op{ctx: context.WithoutCancel(ctx), name: name, run: fn, detached: true})
}

func (m *Manager) dispatch(o op) Result {
	m.adjustPending(1)
	defer m.adjustPending(-1)

	o.reply = make(chan Result, 1)
	select {
	case m.ops <- o:
	case <-o.ctx.Done():
		return canceled()
	case <-m.quit:
		if !o.detached {
			return Result{Error: MsgGeneric}
		}
		<-m.done
		m.inline.Lock()
		defer m.inline.Unlock()
		return m.execute(o)
	}
	return <-o.reply
}

func (m *Manager) adjustPending(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending += delta
	m.publishLocked()
}

// commit applies fn to the state unless ctx is already done. It reports
// whether fn ran. Only the worker calls it.
func (m *Manager) commit(ctx context.Context, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fn()
	m.publishLocked()
	return true
}

// force applies fn regardless of cancellation.
func (m *Manager) force(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	m.publishLocked()
}

func (m *Manager) snapshotLocked() State {
	return State{
		User:      m.user.Clone(),
		IsLoading: m.starting || m.pending > 0,
	}
}

// publishLocked delivers the current state to every subscriber, replacing
// any value they have not read yet.
func (m *Manager) publishLocked() {
	if len(m.subs) == 0 {
		return
	}
	s := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// State returns a snapshot; the User in it is a copy.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) User() *models.User {
	return m.State().User
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.starting || m.pending > 0
}

// Subscribe returns a channel that always holds the latest state, starting
// with the current one. Call the returned func to stop; Close stops all.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the worker once the current operation, if any, has finished,
// and closes all subscriptions. Later operations fail without side effects,
// except Logout, which still tears the local session down.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.quit)
		<-m.done

		m.mu.Lock()
		defer m.mu.Unlock()
		m.closed = true
		for id, ch := range m.subs {
			delete(m.subs, id)
			close(ch)
		}
	})
}

// tokensRefreshed keeps the store in step with transparent refreshes done by
// the client.
func (m *Manager) tokensRefreshed(accessToken, refreshToken string) {
	ctx := context.Background()
	if err := m.store.SaveTokens(ctx, accessToken, refreshToken); err != nil {
		m.log.Warn(ctx, "failed to persist refreshed tokens", "error", err)
	}
}

// wipe clears local data on a best-effort basis.
func (m *Manager) wipe(ctx context.Context, log logging.Logger) {
	if err := m.store.ClearAllData(context.WithoutCancel(ctx)); err != nil {
		log.Warn(ctx, "failed to clear local data", "error", err)
	}
}

func (m *Manager) fail(ctx context.Context, log logging.Logger, err error) Result {
	if ctx.Err() != nil {
		return canceled()
	}
	msg := message(err)
	log.Warn(ctx, "operation failed", "error", err, "message", msg)
	return Result{Error: msg}
}
