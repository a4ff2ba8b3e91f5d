package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strconv"
	"strings"
)

const (
	lockHost     = "127.0.0.1"
	lockPortBase = 20000
	lockPortSpan = 20000
)

// ErrAlreadyRunning indicates another timer already holds the lock.
var ErrAlreadyRunning = errors.New("timer already running")

// InstanceError reports which lock address is held and by which timer name.
type InstanceError struct {
	AppName string
	Address string
	Err     error
}

func (err *InstanceError) Error() string {
	return fmt.Sprintf("%s: %q holds %s: %v", ErrAlreadyRunning, err.AppName, err.Address, err.Err)
}

// Is matches ErrAlreadyRunning.
func (err *InstanceError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

func (err *InstanceError) Unwrap() error {
	return err.Err
}

// InstanceGuard keeps one timer per app name on this machine.
type InstanceGuard struct {
	listener net.Listener
}

// LockAddress returns the loopback address guarding appName.
func LockAddress(appName string) string {
	return net.JoinHostPort(lockHost, strconv.Itoa(lockPort(appName)))
}

// AcquireSingleInstance holds the lock address for appName until Release.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := LockAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, &InstanceError{AppName: appName, Address: address, Err: err}
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the lock. It is safe on a nil or released guard.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// Address returns the held address, or "" once released.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// lockPort is stable across case and surrounding spaces so "DDC Timer" and
// " ddc timer " share one lock.
func lockPort(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(strings.ToLower(strings.TrimSpace(appName))))
	return lockPortBase + int(hash.Sum32()%lockPortSpan)
}
