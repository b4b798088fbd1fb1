// Package invoker runs the native packaging tool against a staged tree.
//
// A failed first attempt is retried exactly once under a known-good
// file-creation mask, since packaging tools such as dpkg-deb reject payloads
// whose permissions were skewed by the caller's umask. The mask change is
// scoped to the retry and always undone.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/executor"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/umask"
)

// MaskFunc runs fn with the process umask set to mask and restores it afterwards
type MaskFunc func(mask int, fn func() error) error

// Request describes one packaging tool invocation
type Request struct {
	Tool         string
	Args         []string
	Dir          string
	ArtifactPath string
}

// Invoker runs a packaging tool with the bounded retry policy
type Invoker struct {
	runner    executor.Runner
	withMask  MaskFunc
	retryMask int
}

// Option customises an Invoker
type Option func(*Invoker)

// WithMaskFunc replaces the umask scope used for the retry
func WithMaskFunc(f MaskFunc) Option {
	return func(i *Invoker) {
		i.withMask = f
	}
}

// WithRetryMask sets the umask applied during the retry
func WithRetryMask(mask int) Option {
	return func(i *Invoker) {
		i.retryMask = mask
	}
}

// New creates an Invoker
func New(runner executor.Runner, opts ...Option) *Invoker {
	inv := &Invoker{
		runner:    runner,
		withMask:  umask.With,
		retryMask: umask.Safe,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs the tool. On a non-zero exit it retries once under the retry
// mask; a second failure is returned as an ErrPackaging PackError carrying the
// tool's diagnostic output. Failures to start the tool are not retried.
func (i *Invoker) Invoke(ctx context.Context, req Request) (*models.PackagingResult, error) {
	cmd := executor.Command{Name: req.Tool, Args: req.Args, Dir: req.Dir}

	logrus.Infof("Running %s", cmd)
	res, err := i.runner.Run(ctx, cmd)
	if err == nil {
		return i.success(req, res, 1)
	}

	if !executor.IsExitFailure(err) {
		return nil, packagingError(res, err)
	}

	logrus.Warnf("%s failed: %v", req.Tool, err)
	logrus.Warnf("Retrying with umask %03o", i.retryMask)

	var retryRes *executor.Result
	retryErr := i.withMask(i.retryMask, func() error {
		var runErr error
		retryRes, runErr = i.runner.Run(ctx, cmd)
		return runErr
	})
	if retryErr != nil {
		if retryRes == nil {
			retryRes = res
		}
		return nil, packagingError(retryRes, fmt.Errorf("retry failed: %w", retryErr))
	}

	return i.success(req, retryRes, 2)
}

func (i *Invoker) success(req Request, res *executor.Result, attempts int) (*models.PackagingResult, error) {
	if req.ArtifactPath != "" {
		if _, err := os.Stat(req.ArtifactPath); err != nil {
			return nil, packagingError(res, fmt.Errorf("%s reported success but produced no artifact: %w", req.Tool, err))
		}
	}

	return &models.PackagingResult{
		ArtifactPath: req.ArtifactPath,
		Output:       res.Output(),
		Attempts:     attempts,
		Retried:      attempts > 1,
	}, nil
}

func packagingError(res *executor.Result, err error) error {
	pe := &models.PackError{
		Type:   models.ErrPackaging,
		Stage:  "invoke",
		Output: res.Output(),
		Err:    err,
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		pe.Remedy = "the run was interrupted; rerun to rebuild the package"
	}
	return pe
}
