// Package cli is the interactive matrimo console.
//
// The console plays the part of the app's screens: at startup it asks the
// session whether a stored login can be restored and lands either on the
// home prompt or on onboarding. From there the user can register, log in,
// recover a password, look at or edit their profile, and log out.
//
// All input is validated here, before the session is called. The session's
// Result is printed as-is; the console never sees raw transport errors.
//
// A background watcher pings the server and shows online/offline in the
// prompt. App.Run blocks until the user exits or the context is cancelled.
package cli
