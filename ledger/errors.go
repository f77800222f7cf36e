// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// BadCallError rejects a call before it reaches the marketplace.
// The ledger is left untouched and the nonce is not consumed.
type BadCallError struct {
	msg string
}

func (e *BadCallError) Error() string {
	return "bad call: " + e.msg
}

func badCall(format string, args ...any) error {
	return &BadCallError{fmt.Sprintf(format, args...)}
}

// IsBadCall returns whether err is a BadCallError.
func IsBadCall(err error) bool {
	var bad *BadCallError
	return errors.As(err, &bad)
}
