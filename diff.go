package envtool

import (
	"context"
	"path/filepath"

	"github.com/ethan-huo/env-tool/pkg/differ"
	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
)

// Differ reports drift without mutating anything.
type Differ interface {
	// Diff reconciles and renders the drift report.
	Diff(ctx context.Context, opts ...differ.Option) (*differ.Report, error)
}

// Diff implements Differ.
func (c *client) Diff(ctx context.Context, opts ...differ.Option) (*differ.Report, error) {
	if c.options.targets.Len() == 0 {
		return nil, errors.NewConfigError("sync", "no targets configured", nil)
	}

	ctx = logging.WithOperation(logging.WithEnv(ctx, c.options.env), "diff")
	result, err := c.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	opts = append([]differ.Option{differ.WithLocalName(c.localName())}, opts...)
	return differ.Build(result, opts...), nil
}

// localName is the column header for the local source.
func (c *client) localName() string {
	if p, ok := c.options.local.(interface{ Path() string }); ok && p.Path() != "" {
		return filepath.Base(p.Path())
	}
	return c.options.local.ID().String()
}
