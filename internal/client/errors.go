package client

import "errors"

var (
	ErrUnauthorized    = errors.New("client unauthorized")
	ErrNotConnected    = errors.New("not connected to server")
	ErrServerGaveUp    = errors.New("reconnect attempts exhausted, running local-only")
	ErrNoTokenReceived = errors.New("no token received from server")
)
