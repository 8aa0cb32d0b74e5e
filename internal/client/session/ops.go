package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/logging"
)

var errIncompleteAuth = errors.New("auth response carries no user")

// CheckAuthStatus restores a persisted session when one is usable and says
// where the UI should start. The first call to finish ends the startup
// loading state, whatever its outcome.
func (m *Manager) CheckAuthStatus(ctx context.Context) Destination {
	dest := DestinationOnboarding
	defer m.force(func() { m.starting = false })

	res := m.submit(ctx, "check_auth_status", func(ctx context.Context, log logging.Logger) Result {
		accessToken, err := m.store.GetStoreToken(ctx)
		if err != nil {
			log.Warn(ctx, "failed to read access token", "error", err)
			m.wipe(ctx, log)
			return Result{}
		}
		refreshToken, err := m.store.GetRefreshToken(ctx)
		if err != nil {
			log.Warn(ctx, "failed to read refresh token", "error", err)
			m.wipe(ctx, log)
			return Result{}
		}
		user, err := m.store.GetUserInfo(ctx)
		if err != nil {
			log.Warn(ctx, "failed to read user info", "error", err)
			m.wipe(ctx, log)
			return Result{}
		}

		if accessToken == "" && refreshToken == "" && user == nil {
			log.Debug(ctx, "no persisted session")
			return Result{}
		}
		if user == nil || user.ID == "" || !usable(accessToken, refreshToken, m.now()) {
			log.Info(ctx, "persisted session is not usable, clearing")
			m.wipe(ctx, log)
			return Result{}
		}

		if !m.commit(ctx, func() {
			m.user = user
			m.client.SetTokens(accessToken, refreshToken)
		}) {
			return canceled()
		}

		dest = DestinationHome
		log.Info(ctx, "session restored", "user_id", user.ID)
		return succeeded()
	})

	if !res.Success {
		return DestinationOnboarding
	}
	return dest
}

// Login authenticates against the collaborator and, on success, replaces the
// current user and persists the session.
func (m *Manager) Login(ctx context.Context, email string, password []byte) Result {
	return m.submit(ctx, "login", func(ctx context.Context, log logging.Logger) Result {
		prevAccess, prevRefresh := m.client.Tokens()

		data, err := m.client.Login(ctx, email, password)
		if err == nil && (data == nil || data.User == nil || data.User.ID == "") {
			m.client.SetTokens(prevAccess, prevRefresh)
			err = errIncompleteAuth
		}
		if err != nil {
			return m.fail(ctx, log, err)
		}

		user := data.User.Clone()
		if !m.commit(ctx, func() { m.user = user }) {
			m.client.SetTokens(prevAccess, prevRefresh)
			return canceled()
		}

		if err := m.store.SaveSession(context.WithoutCancel(ctx), data.AccessToken, data.RefreshToken, user); err != nil {
			log.Warn(ctx, "failed to persist session", "error", err)
		}

		log.Info(ctx, "logged in", "user_id", user.ID)
		return succeeded()
	})
}

// Register creates an account. It never authenticates.
func (m *Manager) Register(ctx context.Context, reg models.Registration) Result {
	return m.submit(ctx, "register", func(ctx context.Context, log logging.Logger) Result {
		if err := m.client.Register(ctx, &reg); err != nil {
			return m.fail(ctx, log, err)
		}
		return succeeded()
	})
}

// Logout revokes the remote session when possible and always tears down the
// local one: persisted data, client tokens and the user. Cancelling ctx, even
// before the call, only skips or aborts the remote part. The result only
// fails when local data could not be cleared.
func (m *Manager) Logout(ctx context.Context) Result {
	remoteCtx := ctx
	if remoteCtx == nil {
		remoteCtx = context.Background()
	}

	return m.submitDetached(ctx, "logout", func(ctx context.Context, log logging.Logger) Result {
		if access, refresh := m.client.Tokens(); access != "" || refresh != "" {
			if remoteCtx.Err() != nil {
				log.Warn(ctx, "logout cancelled, skipping remote revocation", "error", remoteCtx.Err())
			} else if err := m.client.Logout(remoteCtx); err != nil {
				log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
			}
		}

		clearErr := m.store.ClearAllData(ctx)
		m.client.SetTokens("", "")
		m.force(func() { m.user = nil })

		if clearErr != nil {
			log.Error(ctx, "failed to clear local data", "error", clearErr)
			return Result{Error: MsgGeneric}
		}

		log.Info(ctx, "logged out")
		return succeeded()
	})
}

// UpdateUser merges patch into the current user. Without a user it does nothing.
func (m *Manager) UpdateUser(ctx context.Context, patch models.UserPatch) {
	m.submit(ctx, "update_user", func(ctx context.Context, log logging.Logger) Result {
		var merged *models.User
		ok := m.commit(ctx, func() {
			if m.user == nil || patch.Empty() {
				return
			}
			u := patch.Apply(*m.user)
			m.user = &u
			merged = u.Clone()
		})
		if !ok {
			return canceled()
		}
		if merged == nil {
			return Result{}
		}

		if err := m.store.SaveUserInfo(context.WithoutCancel(ctx), merged); err != nil {
			log.Warn(ctx, "failed to persist user info", "error", err)
		}
		return succeeded()
	})
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) Result {
	return m.submit(ctx, "forgot_password", func(ctx context.Context, log logging.Logger) Result {
		if err := m.client.ForgotPassword(ctx, email); err != nil {
			return m.fail(ctx, log, err)
		}
		return succeeded()
	})
}

func (m *Manager) VerifyResetOTP(ctx context.Context, email, otp string) Result {
	return m.submit(ctx, "verify_reset_otp", func(ctx context.Context, log logging.Logger) Result {
		if err := m.client.VerifyResetOTP(ctx, email, otp); err != nil {
			return m.fail(ctx, log, err)
		}
		return succeeded()
	})
}

func (m *Manager) ResetPassword(ctx context.Context, email, otp string, newPassword []byte) Result {
	return m.submit(ctx, "reset_password", func(ctx context.Context, log logging.Logger) Result {
		if err := m.client.ResetPassword(ctx, email, otp, newPassword); err != nil {
			return m.fail(ctx, log, err)
		}
		return succeeded()
	})
}
