// SPDX-License-Identifier: ice License 1.0

package server

import (
	"context"
	"net/http"
	"os"
	stdlibtime "time"

	"github.com/gin-gonic/gin"
)

// Public API.

type (
	Router = gin.Engine
	Server interface {
		// ListenAndServe starts everything and blocks indefinitely.
		ListenAndServe(ctx context.Context, cancel context.CancelFunc)
	}
	// State is the custom behaviour implemented by users of this package to customize the http server`s lifecycle.
	State interface {
		Init(ctx context.Context, cancel context.CancelFunc)
		Close(ctx context.Context) error
		RegisterRoutes(r *Router)
		CheckHealth(ctx context.Context) error
	}
	Config struct {
		HTTPServer struct {
			Port uint16 `yaml:"port"`
		} `yaml:"httpServer"`
		DefaultEndpointTimeout stdlibtime.Duration `yaml:"defaultEndpointTimeout"`
	}
)

// Private API.

// .
var (
	//nolint:gochecknoglobals // Because its loaded once, at runtime.
	development bool
	//nolint:gochecknoglobals // Because its loaded once, at runtime.
	cfg Config
)

type (
	srv struct {
		State
		server *http.Server
		quit   chan<- os.Signal
		router *Router
	}
)
