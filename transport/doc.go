// Package transport turns a method call into a correlated JSON-RPC 2.0 request
// carried by a single HTTP POST, and interprets the reply or transport failure.
//
// A Connection owns one long-lived http.Client configured with the agent base
// URL, default headers, optional bearer token and a timeout. Every failure is
// reported as an *Error whose Kind tells HTTP status failures, connection
// failures, empty or undecodable bodies and protocol-level error objects
// apart. Calls are performed at most once; there is no retry.
//
//	conn := transport.New("http://localhost:8080", func(o *transport.Options) {
//		o.AuthToken = token
//	})
//	defer conn.Close()
//
//	result, err := conn.Call(ctx, "message/send", params)
package transport
