package handler

import (
	"context"
	"net"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

func clientContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return goSession.WithClientIP(r.Context(), host)
}
