package offline

import (
	"errors"
	"fmt"
)

var (
	ErrNotInstalled    = errors.New("no installed generation waiting for activation")
	ErrUnknownMessage  = errors.New("unknown worker message")
	ErrDisabled        = errors.New("offline cache is disabled")
	errBodyTooLarge    = errors.New("response body too large to cache")
	errUnexpectedState = errors.New("worker is busy")
)

// InstallError reports the asset that prevented a generation from being populated.
type InstallError struct {
	Generation string
	Asset      string
	Err        error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s: asset %s: %s", e.Generation, e.Asset, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
