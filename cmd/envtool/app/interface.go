package app

import (
	"github.com/ethan-huo/env-tool/internal/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
