package errors

import (
	"errors"
	"fmt"
	"strings"
)

// LocalSourceError means the env file could not be used, so nothing can be
// reconciled. Err is a *NotFoundError for a missing file and a *ParseError
// for a malformed one.
type LocalSourceError struct {
	Path string
	Err  error
}

func NewLocalSourceError(path string, err error) *LocalSourceError {
	return &LocalSourceError{Path: path, Err: err}
}

func (e *LocalSourceError) Error() string {
	return fmt.Sprintf("local source %s unreadable: %v", e.Path, e.Err)
}

func (e *LocalSourceError) Unwrap() error        { return e.Err }
func (e *LocalSourceError) Is(target error) bool { return target == ErrLocalSourceUnreadable }

// RemoteUnavailableError means a target's list call failed. The target is
// skipped for removals but writes still go out.
type RemoteUnavailableError struct {
	Target string
	Err    error
}

func NewRemoteUnavailableError(target string, err error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Target: target, Err: err}
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Target, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error        { return e.Err }
func (e *RemoteUnavailableError) Is(target error) bool { return target == ErrRemoteUnavailable }

// PartialWriteError lists the keys a target rejected.
type PartialWriteError struct {
	Target string
	Keys   []string
	Err    error
}

func NewPartialWriteError(target string, keys []string, err error) *PartialWriteError {
	return &PartialWriteError{Target: target, Keys: keys, Err: err}
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("failed to write %d key(s) to %s (%s): %v",
		len(e.Keys), e.Target, strings.Join(e.Keys, ", "), e.Err)
}

func (e *PartialWriteError) Unwrap() error        { return e.Err }
func (e *PartialWriteError) Is(target error) bool { return target == ErrPartialWrite }

// IsLocalSourceUnreadable reports whether err must abort the run.
func IsLocalSourceUnreadable(err error) bool { return errors.Is(err, ErrLocalSourceUnreadable) }

func IsRemoteUnavailable(err error) bool { return errors.Is(err, ErrRemoteUnavailable) }
func IsPartialWrite(err error) bool      { return errors.Is(err, ErrPartialWrite) }

// WrapRemote turns err into a RemoteUnavailableError. Nil stays nil.
func WrapRemote(target string, err error) error {
	if err == nil {
		return nil
	}
	return NewRemoteUnavailableError(target, err)
}
