/*
Package server is the TCP session driver for the knock-knock dialogue.

A Server listens on one address, accepts exactly one connection, runs one
dialogue over it with newline-delimited text, and stops listening. Serve
returns once the engine has produced the termination phrase, the client has
gone away, or the context is cancelled.

	srv := server.New(":4444", server.WithLogger(logger))
	res, err := srv.Serve(ctx)
*/
package server
