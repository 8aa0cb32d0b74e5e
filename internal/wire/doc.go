// Package wire is the contract between the matrimo client and the auth
// service.
//
// The same request/response types travel over two transports:
//
//   - gRPC: service matrimo.auth.v1.AuthService, unary methods whose
//     messages are google.protobuf.Struct values. ServiceDesc and
//     RegisterAuthServer play the role of generated stubs; clients call
//     conn.Invoke with FullMethod(name).
//   - REST: JSON bodies posted to the Path* routes, answered with an
//     Envelope {"success", "data", "error"}.
//
// ToStruct and FromStruct convert between the Go types and structpb through
// protojson, so a field has the same name on both transports.
package wire
