// Package session owns the client's authentication state.
//
// A Manager is the single source of truth for the logged-in user. It is
// created once at startup, handed to the UI layer (directly or through
// NewContext), and torn down with Close.
//
// Every operation is executed by one worker goroutine, so concurrent callers
// are serialized and the user is only ever written by that goroutine. Readers
// get consistent snapshots through State and Subscribe.
//
// Operations never return errors and never panic. They report a Result whose
// Error field holds text meant for the user. A caller whose context is
// cancelled before the outcome is committed gets Result{Canceled: true} and
// the state is left untouched. Logout is the exception: once it has been
// accepted the local session is always torn down.
package session
