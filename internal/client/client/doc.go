// Package client talks to the matrimo auth service.
//
// Client is the contract the session layer depends on. Two transports
// implement it:
//   - GRPCClient calls matrimo.auth.v1.AuthService. An interceptor attaches
//     the access token and, when the server answers "token expired", rotates
//     the pair once through RefreshToken and retries.
//   - HTTPClient calls the REST routes on fasthttp and decodes the
//     {success,data,error} envelope. Expired tokens are handled the same way.
//
// Failures surface as ErrUnavailable (no usable answer from the server),
// or as *RemoteError carrying the server's message and wrapping
// ErrUnauthorized or ErrRejected. Match them with errors.Is / errors.As.
//
// InitDatabase and RunMigrations bootstrap the local SQLite database used by
// the session store.
package client
