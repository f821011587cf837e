// Package rpc issues one authenticated JSON-RPC call per session over a
// plaintext HTTP/1.1 connection.
//
// A session walks through five states in order:
//
//	connecting -> sending -> reading status -> reading headers -> reading body
//
// Every state either moves to the next one or ends the call with an [*Error]
// whose [Kind] names the failure. The connection is closed on every exit.
package rpc
