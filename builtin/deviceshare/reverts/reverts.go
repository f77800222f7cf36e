// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	NotFound Kind = iota + 1
	Unauthorized
	InvalidState
	InvalidParameters
	InvalidDuration
	DeviceUnavailable
	NotVerified
	InsufficientFunds
	TransferFailed
	AlreadySettled
)

var kindNames = map[Kind]string{
	NotFound:          "NotFound",
	Unauthorized:      "Unauthorized",
	InvalidState:      "InvalidState",
	InvalidParameters: "InvalidParameters",
	InvalidDuration:   "InvalidDuration",
	DeviceUnavailable: "DeviceUnavailable",
	NotVerified:       "NotVerified",
	InsufficientFunds: "InsufficientFunds",
	TransferFailed:    "TransferFailed",
	AlreadySettled:    "AlreadySettled",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert is a business rule rejection. The ledger is left unchanged by the failed operation.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Error() string {
	return e.kind.String() + ": " + e.message
}

// Is matches any revert of the same kind, so that errors.Is(err, reverts.New(kind, "")) works.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert error.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

// IsKind reports whether err is a revert of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
