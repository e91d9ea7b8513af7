package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence     = errors.New("local write rejected")
	ErrInvalidResponse = errors.New("remote response is unusable")
	ErrNotConnected    = errors.New("no remote link configured")
	ErrAlreadyLinked   = errors.New("remote link already exists")
	ErrNoCredential    = errors.New("no remote credential configured")
)

// RemoteError reports a non-success response from the remote document store.
type RemoteError struct {
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store rejected request: status %d", e.Status)
}

func IsRemote(err error) bool {
	re := &RemoteError{}
	return errors.As(err, &re)
}
