// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/builtin/deviceshare/request"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

func amount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

type testLedger struct {
	*Ledger
	t     *testing.T
	clock *clock.Manual
}

func newTestLedger(t *testing.T) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gene := genesis.NewDevnet()
	clk := clock.NewManual(gene.LaunchTime() + 1000)
	l, err := New(state.NewStater(db, 16), gene, clk)
	require.NoError(t, err)
	return &testLedger{l, t, clk}
}

func (tl *testLedger) invoke(origin share.Address, method string, args any) *Receipt {
	receipt, err := tl.Invoke(origin, method, args)
	require.NoError(tl.t, err, method)
	return receipt
}

func (tl *testLedger) balance(addr share.Address) *big.Int {
	var bal *big.Int
	require.NoError(tl.t, tl.View(func(s *Snapshot) (err error) {
		bal, err = s.Token.BalanceOf(addr)
		return
	}))
	return bal
}

func (tl *testLedger) request(id uint64) *request.Request {
	var req *request.Request
	require.NoError(tl.t, tl.View(func(s *Snapshot) (err error) {
		req, err = s.DeviceShare.Requests(id)
		return
	}))
	return req
}

func (tl *testLedger) assertAudit() {
	require.NoError(tl.t, tl.View(func(s *Snapshot) error {
		report, err := s.DeviceShare.Audit()
		if err != nil {
			return err
		}
		assert.True(tl.t, report.Balanced(), "escrow %v, totals %+v", report.Balance, report.Totals)
		return nil
	}))
}

var (
	admin     = genesis.DevAccounts()[0]
	provider  = genesis.DevAccounts()[1]
	requestor = genesis.DevAccounts()[2]
)

// listDevice registers, verifies and lists a device with rate 10 per hour, 2 to 12 hours.
func (tl *testLedger) listDevice() uint64 {
	tl.invoke(provider.Address, MethodApprove, &TokenArgs{To: builtin.DeviceShare.Address, Amount: (*math.HexOrDecimal256)(share.DefaultFixedStake)})
	r := tl.invoke(provider.Address, MethodAddDevice, &AddDeviceArgs{
		Name:           "Device2",
		HourlyRate:     amount(10),
		MinHours:       2,
		URI:            "URI2",
		AvailableHours: 12,
		Category:       2,
	})
	id := r.Output.(*IDOutput).ID
	tl.invoke(admin.Address, MethodVerifyProvider, &DeviceArgs{id})
	tl.invoke(provider.Address, MethodListDevice, &DeviceArgs{id})
	return id
}

func TestReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gene := genesis.NewDevnet()
	l, err := New(state.NewStater(db, 0), gene, clock.System{})
	require.NoError(t, err)
	assert.Equal(t, gene.ID(), l.ID())

	_, err = l.Invoke(admin.Address, MethodMint, &TokenArgs{To: admin.Address, Amount: amount(1)})
	require.NoError(t, err)

	// same genesis reopens the existing ledger
	_, err = New(state.NewStater(db, 0), gene, clock.System{})
	require.NoError(t, err)

	custom, err := genesis.NewCustomNet(&genesis.CustomGenesis{Params: genesis.Params{Admin: admin.Address}})
	require.NoError(t, err)
	_, err = New(state.NewStater(db, 0), custom, clock.System{})
	assert.ErrorContains(t, err, "genesis mismatch")
}

func TestScenario(t *testing.T) {
	tl := newTestLedger(t)
	deviceID := tl.listDevice()

	providerBefore := tl.balance(provider.Address)
	requestorBefore := tl.balance(requestor.Address)

	tl.invoke(requestor.Address, MethodApprove, &TokenArgs{To: builtin.DeviceShare.Address, Amount: amount(1000)})
	r := tl.invoke(requestor.Address, MethodRequestDeviceUse, &RequestDeviceUseArgs{DeviceID: deviceID, Hours: 12})
	reqID := r.Output.(*IDOutput).ID
	assert.Equal(t, uint64(1), reqID)

	accepted := tl.invoke(provider.Address, MethodAcceptRequest, &RequestArgs{reqID})
	assert.Equal(t, accepted.Time, tl.request(reqID).StartTime)
	assert.Equal(t, new(big.Int).Sub(requestorBefore, big.NewInt(120)), tl.balance(requestor.Address))
	tl.assertAudit()

	_, err := tl.clock.Advance(time.Hour)
	require.NoError(t, err)
	tl.invoke(requestor.Address, MethodCancelRequest, &RequestArgs{reqID})
	tl.invoke(requestor.Address, MethodTransferTokenToRequestor, &RequestArgs{reqID})

	req := tl.request(reqID)
	assert.Equal(t, request.StatusCancelled, req.Status)
	assert.True(t, req.CancelRequest)
	assert.Equal(t, big.NewInt(10), req.EarnedAmount)
	assert.Equal(t, big.NewInt(110), req.RefundAmount)
	assert.Equal(t, new(big.Int).Sub(requestorBefore, big.NewInt(10)), tl.balance(requestor.Address))
	tl.assertAudit()

	_, err = tl.Invoke(requestor.Address, MethodTransferTokenToRequestor, &RequestArgs{reqID})
	assert.True(t, reverts.IsKind(err, reverts.AlreadySettled))

	r = tl.invoke(provider.Address, MethodWithdrawEarnings, nil)
	assert.Equal(t, big.NewInt(10), (*big.Int)(r.Output.(*AmountOutput).Amount))
	assert.Equal(t, new(big.Int).Add(providerBefore, big.NewInt(10)), tl.balance(provider.Address))

	tl.invoke(provider.Address, MethodDelistDevice, &DeviceArgs{deviceID})
	r = tl.invoke(provider.Address, MethodWithdrawStake, nil)
	assert.Equal(t, share.DefaultFixedStake, (*big.Int)(r.Output.(*AmountOutput).Amount))
	assert.Equal(t, new(big.Int).Add(providerBefore, new(big.Int).Add(share.DefaultFixedStake, big.NewInt(10))), tl.balance(provider.Address))
	assert.Equal(t, 0, tl.balance(builtin.DeviceShare.Address).Sign())
	tl.assertAudit()
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	tl := newTestLedger(t)
	deviceID := tl.listDevice()

	r := tl.invoke(requestor.Address, MethodRequestDeviceUse, &RequestDeviceUseArgs{DeviceID: deviceID, Hours: 2})
	reqID := r.Output.(*IDOutput).ID

	var root share.Bytes32
	require.NoError(t, tl.View(func(s *Snapshot) error {
		root = s.Root
		return nil
	}))

	// no allowance for the escrow pull
	_, err := tl.Invoke(provider.Address, MethodAcceptRequest, &RequestArgs{reqID})
	assert.True(t, reverts.IsKind(err, reverts.InsufficientFunds), "%v", err)

	require.NoError(t, tl.View(func(s *Snapshot) error {
		assert.Equal(t, root, s.Root)
		return nil
	}))
	assert.Equal(t, request.StatusRequested, tl.request(reqID).Status)

	// funding and resubmitting succeeds
	tl.invoke(requestor.Address, MethodApprove, &TokenArgs{To: builtin.DeviceShare.Address, Amount: amount(20)})
	tl.invoke(provider.Address, MethodAcceptRequest, &RequestArgs{reqID})
	assert.Equal(t, request.StatusAccepted, tl.request(reqID).Status)
	tl.assertAudit()
}

func TestApplySigned(t *testing.T) {
	tl := newTestLedger(t)

	sign := func(acc genesis.DevAccount, method string, args any, nonce uint64) *call.Call {
		c, err := call.New(method, args, nonce)
		require.NoError(t, err)
		c, err = c.Sign(tl.ID(), acc.PrivateKey)
		require.NoError(t, err)
		return c
	}

	// a reverted call does not consume the nonce
	_, err := tl.Apply(sign(provider, MethodMint, &TokenArgs{To: provider.Address, Amount: amount(1)}, 1))
	assert.True(t, reverts.IsKind(err, reverts.Unauthorized))

	c := sign(provider, MethodAddDevice, &AddDeviceArgs{Name: "d", HourlyRate: amount(1), MinHours: 1, AvailableHours: 1}, 1)
	receipt, err := tl.Apply(c)
	require.NoError(t, err)
	assert.Equal(t, provider.Address, receipt.Origin)
	assert.Equal(t, c.ID(), receipt.CallID)

	// replay
	_, err = tl.Apply(c)
	assert.True(t, IsBadCall(err))

	_, err = tl.Apply(sign(provider, MethodAddDevice, &AddDeviceArgs{Name: "d", HourlyRate: amount(1), MinHours: 1, AvailableHours: 1}, 1))
	assert.True(t, IsBadCall(err))

	_, err = tl.Apply(sign(provider, MethodAddDevice, &AddDeviceArgs{Name: "e", HourlyRate: amount(1), MinHours: 1, AvailableHours: 1}, 5))
	require.NoError(t, err)

	require.NoError(t, tl.View(func(s *Snapshot) error {
		nonce, err := s.Nonce(provider.Address)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), nonce)
		count, err := s.DeviceShare.DeviceCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
		return nil
	}))

	// unsigned
	unsigned, err := call.New(MethodWithdrawEarnings, nil, 9)
	require.NoError(t, err)
	_, err = tl.Apply(unsigned)
	assert.True(t, IsBadCall(err))
}

func TestBadCalls(t *testing.T) {
	tl := newTestLedger(t)

	_, err := tl.Invoke(admin.Address, "selfDestruct", nil)
	assert.True(t, IsBadCall(err))

	_, err = tl.Invoke(admin.Address, MethodListDevice, map[string]any{"device": 1})
	assert.True(t, IsBadCall(err), "unknown field")

	_, err = tl.Invoke(admin.Address, MethodListDevice, json.RawMessage(`"one"`))
	assert.True(t, IsBadCall(err))

	_, err = tl.Invoke(admin.Address, MethodListDevice, &DeviceArgs{42})
	assert.True(t, reverts.IsKind(err, reverts.NotFound))

	_, err = tl.Invoke(admin.Address, MethodTransfer, &TokenArgs{To: provider.Address, Amount: (*math.HexOrDecimal256)(new(big.Int).Mul(genesis.DevBalance, big.NewInt(2)))})
	assert.True(t, reverts.IsKind(err, reverts.InsufficientFunds))

	_, err = tl.Invoke(admin.Address, MethodTransfer, &TokenArgs{Amount: amount(1)})
	assert.True(t, reverts.IsKind(err, reverts.InvalidParameters))
}

func TestClockNeverMovesBackwards(t *testing.T) {
	tl := newTestLedger(t)

	first := tl.invoke(admin.Address, MethodMint, &TokenArgs{To: admin.Address, Amount: amount(1)})
	require.NoError(t, tl.clock.Set(first.Time-500))
	second := tl.invoke(admin.Address, MethodMint, &TokenArgs{To: admin.Address, Amount: amount(1)})
	assert.Equal(t, first.Time, second.Time)

	require.NoError(t, tl.View(func(s *Snapshot) error {
		last, err := s.LastTime()
		require.NoError(t, err)
		assert.Equal(t, first.Time, last)
		count, err := s.CallCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
		return nil
	}))
}

func TestCommitWaiter(t *testing.T) {
	tl := newTestLedger(t)
	w := tl.NewCommitWaiter()

	_, err := tl.Invoke(admin.Address, MethodListDevice, &DeviceArgs{1})
	require.Error(t, err)
	select {
	case <-w.C():
		t.Fatal("failed call must not signal a commit")
	default:
	}

	tl.invoke(admin.Address, MethodMint, &TokenArgs{To: admin.Address, Amount: amount(1)})
	<-w.C()
}

func TestMethods(t *testing.T) {
	names := Methods()
	assert.Len(t, names, 15)
	assert.Contains(t, names, MethodAcceptRequest)
	assert.IsIncreasing(t, names)
}

func TestAmountsBeyond256Bits(t *testing.T) {
	tl := newTestLedger(t)
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	before := tl.balance(admin.Address)
	_, err := tl.Invoke(admin.Address, MethodMint, &TokenArgs{To: admin.Address, Amount: (*math.HexOrDecimal256)(maxUint256)})
	assert.True(t, reverts.IsKind(err, reverts.InvalidParameters))
	assert.Equal(t, before, tl.balance(admin.Address), "reverted mint leaves balances")

	_, err = tl.Invoke(provider.Address, MethodAddDevice, &AddDeviceArgs{
		Name:           "Device1",
		HourlyRate:     (*math.HexOrDecimal256)(new(big.Int).Rsh(maxUint256, 1)),
		MinHours:       1,
		AvailableHours: 4,
	})
	assert.True(t, reverts.IsKind(err, reverts.InvalidParameters))
	tl.assertAudit()
}
