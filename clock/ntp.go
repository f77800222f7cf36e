// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/log"
)

var logger = log.WithContext("pkg", "clock")

// DefaultNTPHost is queried when no host is configured.
const DefaultNTPHost = "pool.ntp.org"

// Offset queries host and returns the local clock offset.
func Offset(host string) (time.Duration, error) {
	resp, err := ntp.Query(host)
	if err != nil {
		return 0, errors.Wrap(err, "query ntp")
	}
	return resp.ClockOffset, nil
}

// CheckOffset warns when the local clock drifts from host by more than tolerance.
// Request windows are billed per second, so drift is charged to someone.
func CheckOffset(host string, tolerance time.Duration) {
	offset, err := Offset(host)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if offset.Abs() > tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
}

// WatchOffset runs CheckOffset every interval until ctx is done.
func WatchOffset(ctx context.Context, host string, interval, tolerance time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	CheckOffset(host, tolerance)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CheckOffset(host, tolerance)
		}
	}
}
