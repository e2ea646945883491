// Command doubtdesk runs the campus doubt-solving API and a small terminal
// client for it.
//
// @title                       doubtdesk API
// @version                     1.0
// @description                 Students post academic doubts, answer each other, and get notified of new responses.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
