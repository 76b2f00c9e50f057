package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/taskmesh/taskmesh-contract/common"
	"github.com/taskmesh/taskmesh-contract/contracts/fee/feeconst"
	"github.com/taskmesh/taskmesh-contract/contracts/fee/taskstatus"
)

const (
	nativeSymbol = "GAS"
	cpuSymbol    = "CPU"
)

// invokeAborted checks that the transaction ended in FAULT. ABORT does not
// carry the logged message into the fault exception, so no text is matched.
func invokeAborted(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) {
	inv.InvokeFail(t, "", method, args...)
}

func TestRegisterToken(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	committee := e.CommitteeInvoker(feeHash)

	tokenHash := randomHash160()
	committee.Invoke(t, stackitem.Null{}, "registerToken", cpuSymbol, tokenHash, 2)

	committee.Invoke(t, true, "isSupported", cpuSymbol)

	t.Run("duplicate symbol", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrTokenExists, "registerToken", cpuSymbol, randomHash160(), 2)
	})

	t.Run("duplicate token hash", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrTokenExists, "registerToken", "MEM", tokenHash, 2)
	})

	t.Run("native symbol is taken", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrTokenExists, "registerToken", nativeSymbol, randomHash160(), 2)
	})

	t.Run("zero price", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrInvalidPrice, "registerToken", "MEM", randomHash160(), 0)
	})

	t.Run("empty symbol", func(t *testing.T) {
		committee.InvokeFail(t, "empty token symbol", "registerToken", "", randomHash160(), 2)
	})

	t.Run("not an owner", func(t *testing.T) {
		acc := e.NewAccount(t)
		accInv := e.NewInvoker(feeHash, acc)
		accInv.InvokeFail(t, common.ErrOwnerWitnessFailed, "registerToken", "MEM", randomHash160(), 2)
	})
}

func TestListTokens(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 7)
	committee := e.CommitteeInvoker(feeHash)

	committee.Invoke(t, stackitem.Null{}, "registerToken", cpuSymbol, randomHash160(), 2)
	committee.Invoke(t, stackitem.Null{}, "registerToken", "MEM", randomHash160(), 3)

	s, err := committee.TestInvoke(t, "listTokens")
	require.NoError(t, err)

	tokens := s.Pop().Array()
	require.Len(t, tokens, 3)

	// Registration order, native first.
	for i, expected := range []struct {
		symbol string
		price  int64
	}{
		{nativeSymbol, 7},
		{cpuSymbol, 2},
		{"MEM", 3},
	} {
		fields := tokens[i].Value().([]stackitem.Item)
		require.Len(t, fields, 4)

		symbol, err := fields[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, expected.symbol, string(symbol))

		price, err := fields[2].TryInteger()
		require.NoError(t, err)
		require.Equal(t, expected.price, price.Int64())

		enabled, err := fields[3].TryBool()
		require.NoError(t, err)
		require.True(t, enabled)
	}
}

func TestTokenLookup(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	committee := e.CommitteeInvoker(feeHash)

	committee.Invoke(t, true, "isSupported", nativeSymbol)
	committee.Invoke(t, false, "isSupported", "MEM")

	_, err := committee.TestInvoke(t, "getToken", "MEM")
	require.Error(t, err)
	require.Contains(t, err.Error(), feeconst.ErrUnknownToken)

	tokenHash := randomHash160()
	committee.Invoke(t, stackitem.Null{}, "registerToken", cpuSymbol, tokenHash, 2)

	s, err := committee.TestInvoke(t, "getToken", cpuSymbol)
	require.NoError(t, err)
	fields := s.Pop().Array()
	rawHash, err := fields[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, tokenHash.BytesBE(), rawHash)

	t.Run("disabled token", func(t *testing.T) {
		committee.Invoke(t, stackitem.Null{}, "setTokenEnabled", cpuSymbol, false)

		committee.Invoke(t, false, "isSupported", cpuSymbol)
		_, err := committee.TestInvoke(t, "getToken", cpuSymbol)
		require.Error(t, err)
		require.Contains(t, err.Error(), feeconst.ErrUnknownToken)

		committee.Invoke(t, stackitem.Null{}, "setTokenEnabled", cpuSymbol, true)
		committee.Invoke(t, true, "isSupported", cpuSymbol)
	})

	t.Run("native cannot be disabled", func(t *testing.T) {
		committee.InvokeFail(t, "native token cannot be disabled", "setTokenEnabled", nativeSymbol, false)
	})
}

func TestDepositNative(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	gasHash := e.NativeHash(t, nativenames.Gas)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	accInv := e.NewInvoker(feeHash, acc)

	// Untouched accounts have a zero balance sheet.
	requireAllowance(t, committee, accHash, nativeSymbol, 0, 0)

	accInv.Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 5)

	requireAllowance(t, committee, accHash, nativeSymbol, 5, 0)
	require.EqualValues(t, 5, balanceOf(t, e, gasHash, feeHash))

	t.Run("no depositor witness", func(t *testing.T) {
		committee.InvokeFail(t, common.ErrOwnerWitnessFailed, "deposit", accHash, nativeSymbol, 1)
	})

	t.Run("non positive amount", func(t *testing.T) {
		accInv.InvokeFail(t, "non positive amount", "deposit", accHash, nativeSymbol, 0)
	})

	t.Run("unknown token", func(t *testing.T) {
		accInv.InvokeFail(t, feeconst.ErrUnknownToken, "deposit", accHash, "MEM", 1)
	})
}

func TestDepositDirectTransfer(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	gasHash := e.NativeHash(t, nativenames.Gas)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	gasInv := e.NewInvoker(gasHash, acc)

	// Plain transfer with no data credits the sender.
	gasInv.Invoke(t, true, "transfer", accHash, feeHash, 3, nil)
	requireAllowance(t, committee, accHash, nativeSymbol, 3, 0)

	t.Run("beneficiary in data", func(t *testing.T) {
		beneficiary := randomHash160()
		gasInv.Invoke(t, true, "transfer", accHash, feeHash, 2, []any{beneficiary, 2})
		requireAllowance(t, committee, beneficiary, nativeSymbol, 2, 0)
	})

	t.Run("declared amount mismatch", func(t *testing.T) {
		invokeAborted(t, gasInv, "transfer", accHash, feeHash, 5, []any{accHash, 4})
		requireAllowance(t, committee, accHash, nativeSymbol, 3, 0)
	})

	t.Run("unregistered token", func(t *testing.T) {
		tokenHash := deployTokenContract(t, e)
		e.CommitteeInvoker(tokenHash).Invoke(t, stackitem.Null{}, "mint", accHash, 10)

		tokenInv := e.NewInvoker(tokenHash, acc)
		invokeAborted(t, tokenInv, "transfer", accHash, feeHash, 5, nil)
	})
}

func TestDepositExternalToken(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	tokenHash := deployTokenContract(t, e)
	committee := e.CommitteeInvoker(feeHash)

	committee.Invoke(t, stackitem.Null{}, "registerToken", cpuSymbol, tokenHash, 1)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	accInv := e.NewInvoker(feeHash, acc)

	e.CommitteeInvoker(tokenHash).Invoke(t, stackitem.Null{}, "mint", accHash, 5)

	accInv.Invoke(t, stackitem.Null{}, "deposit", accHash, cpuSymbol, 5)

	requireAllowance(t, committee, accHash, cpuSymbol, 5, 0)
	require.EqualValues(t, 5, balanceOf(t, e, tokenHash, feeHash))
	require.EqualValues(t, 0, balanceOf(t, e, tokenHash, accHash))

	t.Run("transfer not approved", func(t *testing.T) {
		// Nothing left on the token account, the token contract refuses.
		accInv.InvokeFail(t, feeconst.ErrNotApproved, "deposit", accHash, cpuSymbol, 1)
		requireAllowance(t, committee, accHash, cpuSymbol, 5, 0)
	})
}

func TestLock(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	e.NewInvoker(feeHash, acc).Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 5)

	workers := randomRecipients(3)
	providers := randomRecipients(1)
	taskID := randomTaskID()

	h := committee.Invoke(t, stackitem.Null{}, "lock",
		taskID, accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))

	// required = 3 workers at price 1 plus 1 provider at data price 1
	requireAllowance(t, committee, accHash, nativeSymbol, 1, 4)

	aer := committee.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Lock", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(taskID.BytesBE()),
		stackitem.NewByteArray(accHash.BytesBE()),
		stackitem.NewByteArray([]byte(nativeSymbol)),
		stackitem.NewBigInteger(big.NewInt(4)),
	}), aer.Events[0].Item)

	t.Run("double lock", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrEscrowExists, "lock",
			taskID, accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})

	t.Run("insufficient free balance", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrInsufficientFree, "lock",
			randomTaskID(), accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))

		// Failed lock leaves the ledger untouched.
		requireAllowance(t, committee, accHash, nativeSymbol, 1, 4)
	})

	t.Run("unknown token", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrUnknownToken, "lock",
			randomTaskID(), accHash, "MEM", asArgs(workers), 1, asArgs(providers))
	})

	t.Run("negative data price", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrInvalidPrice, "lock",
			randomTaskID(), accHash, nativeSymbol, []any{}, -1, asArgs(providers))
	})

	t.Run("not a committee", func(t *testing.T) {
		accInv := e.NewInvoker(feeHash, acc)
		accInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "lock",
			randomTaskID(), accHash, nativeSymbol, []any{}, 1, asArgs(providers))
	})
}

func TestSettleCompleted(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	gasHash := e.NativeHash(t, nativenames.Gas)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	e.NewInvoker(feeHash, acc).Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 5)

	workers := randomRecipients(3)
	providers := randomRecipients(1)
	taskID := randomTaskID()

	committee.Invoke(t, stackitem.Null{}, "lock",
		taskID, accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	committee.Invoke(t, stackitem.Null{}, "settle",
		taskID, int(taskstatus.Completed), accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))

	requireAllowance(t, committee, accHash, nativeSymbol, 1, 0)

	// Every worker owner got the computing price, the provider got the data
	// price, custody shrank by the whole escrow.
	for _, w := range workers {
		require.EqualValues(t, 1, balanceOf(t, e, gasHash, w))
	}
	require.EqualValues(t, 1, balanceOf(t, e, gasHash, providers[0]))
	require.EqualValues(t, 1, balanceOf(t, e, gasHash, feeHash))

	t.Run("double settle", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrEscrowNotFound, "settle",
			taskID, int(taskstatus.Completed), accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})
}

func TestSettleRefund(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	tokenHash := deployTokenContract(t, e)
	committee := e.CommitteeInvoker(feeHash)

	committee.Invoke(t, stackitem.Null{}, "registerToken", cpuSymbol, tokenHash, 1)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	e.CommitteeInvoker(tokenHash).Invoke(t, stackitem.Null{}, "mint", accHash, 5)
	e.NewInvoker(feeHash, acc).Invoke(t, stackitem.Null{}, "deposit", accHash, cpuSymbol, 5)

	workers := randomRecipients(3)
	providers := randomRecipients(1)
	taskID := randomTaskID()

	committee.Invoke(t, stackitem.Null{}, "lock",
		taskID, accHash, cpuSymbol, asArgs(workers), 1, asArgs(providers))
	requireAllowance(t, committee, accHash, cpuSymbol, 1, 4)

	committee.Invoke(t, stackitem.Null{}, "settle",
		taskID, int(taskstatus.Failed), accHash, cpuSymbol, asArgs(workers), 1, asArgs(providers))

	// The whole escrow returned to the free balance, nothing left custody.
	requireAllowance(t, committee, accHash, cpuSymbol, 5, 0)
	require.EqualValues(t, 5, balanceOf(t, e, tokenHash, feeHash))
	for _, w := range workers {
		require.EqualValues(t, 0, balanceOf(t, e, tokenHash, w))
	}

	t.Run("cancelled refunds too", func(t *testing.T) {
		taskID := randomTaskID()
		committee.Invoke(t, stackitem.Null{}, "lock",
			taskID, accHash, cpuSymbol, asArgs(workers), 1, asArgs(providers))
		committee.Invoke(t, stackitem.Null{}, "settle",
			taskID, int(taskstatus.Cancelled), accHash, cpuSymbol, asArgs(workers), 1, asArgs(providers))
		requireAllowance(t, committee, accHash, cpuSymbol, 5, 0)
	})
}

func TestSettleValidation(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	e.NewInvoker(feeHash, acc).Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 5)

	workers := randomRecipients(3)
	providers := randomRecipients(1)
	taskID := randomTaskID()

	committee.Invoke(t, stackitem.Null{}, "lock",
		taskID, accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))

	t.Run("no matching lock", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrEscrowNotFound, "settle",
			randomTaskID(), int(taskstatus.Completed), accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})

	t.Run("recipient lists differ from lock", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrEscrowMismatch, "settle",
			taskID, int(taskstatus.Completed), accHash, nativeSymbol, asArgs(workers[:2]), 1, asArgs(providers))
	})

	t.Run("submitter differs from lock", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrEscrowMismatch, "settle",
			taskID, int(taskstatus.Completed), randomHash160(), nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})

	t.Run("unsupported status", func(t *testing.T) {
		committee.InvokeFail(t, feeconst.ErrBadStatus, "settle",
			taskID, 42, accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})

	t.Run("not a committee", func(t *testing.T) {
		accInv := e.NewInvoker(feeHash, acc)
		accInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "settle",
			taskID, int(taskstatus.Completed), accHash, nativeSymbol, asArgs(workers), 1, asArgs(providers))
	})

	// None of the failed settles touched the ledger.
	requireAllowance(t, committee, accHash, nativeSymbol, 1, 4)
}

func TestWithdraw(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	gasHash := e.NativeHash(t, nativenames.Gas)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	accInv := e.NewInvoker(feeHash, acc)

	accInv.Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 5)
	accInv.Invoke(t, stackitem.Null{}, "withdraw", accHash, nativeSymbol, 3)

	requireAllowance(t, committee, accHash, nativeSymbol, 2, 0)
	require.EqualValues(t, 2, balanceOf(t, e, gasHash, feeHash))

	t.Run("insufficient free balance", func(t *testing.T) {
		accInv.InvokeFail(t, feeconst.ErrInsufficientFree, "withdraw", accHash, nativeSymbol, 3)
	})

	t.Run("no owner witness", func(t *testing.T) {
		committee.InvokeFail(t, common.ErrOwnerWitnessFailed, "withdraw", accHash, nativeSymbol, 1)
	})
}

func TestEscrowViews(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 2)
	committee := e.CommitteeInvoker(feeHash)

	acc := e.NewAccount(t)
	accHash := acc.ScriptHash()
	e.NewInvoker(feeHash, acc).Invoke(t, stackitem.Null{}, "deposit", accHash, nativeSymbol, 20)

	first := randomTaskID()
	second := randomTaskID()
	workers := randomRecipients(2)

	committee.Invoke(t, stackitem.Null{}, "lock",
		first, accHash, nativeSymbol, asArgs(workers), 3, []any{})
	committee.Invoke(t, stackitem.Null{}, "lock",
		second, accHash, nativeSymbol, asArgs(workers), 0, []any{})

	s, err := committee.TestInvoke(t, "getEscrow", first)
	require.NoError(t, err)
	fields := s.Pop().Array()
	require.Len(t, fields, 3)

	submitter, err := fields[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, accHash.BytesBE(), submitter)

	amount, err := fields[2].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 4, amount.Int64()) // 2 workers × price 2

	t.Run("unknown task", func(t *testing.T) {
		_, err := committee.TestInvoke(t, "getEscrow", randomTaskID())
		require.Error(t, err)
		require.Contains(t, err.Error(), feeconst.ErrEscrowNotFound)
	})

	s, err = committee.TestInvoke(t, "iterateEscrows")
	require.NoError(t, err)
	iter := s.Pop().Value().(*storage.Iterator)
	require.Len(t, iteratorToArray(iter), 2)

	committee.Invoke(t, stackitem.Null{}, "settle",
		second, int(taskstatus.Cancelled), accHash, nativeSymbol, asArgs(workers), 0, []any{})

	s, err = committee.TestInvoke(t, "iterateEscrows")
	require.NoError(t, err)
	iter = s.Pop().Value().(*storage.Iterator)
	require.Len(t, iteratorToArray(iter), 1)
}

func TestConservation(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)
	gasHash := e.NativeHash(t, nativenames.Gas)
	committee := e.CommitteeInvoker(feeHash)

	first := e.NewAccount(t)
	second := e.NewAccount(t)

	e.NewInvoker(feeHash, first).Invoke(t, stackitem.Null{}, "deposit", first.ScriptHash(), nativeSymbol, 7)
	e.NewInvoker(feeHash, second).Invoke(t, stackitem.Null{}, "deposit", second.ScriptHash(), nativeSymbol, 9)

	workers := randomRecipients(2)
	taskID := randomTaskID()
	committee.Invoke(t, stackitem.Null{}, "lock",
		taskID, first.ScriptHash(), nativeSymbol, asArgs(workers), 0, []any{})
	committee.Invoke(t, stackitem.Null{}, "settle",
		taskID, int(taskstatus.Completed), first.ScriptHash(), nativeSymbol, asArgs(workers), 0, []any{})

	e.NewInvoker(feeHash, second).Invoke(t, stackitem.Null{}, "withdraw", second.ScriptHash(), nativeSymbol, 4)

	// Custody equals the sum of all ledger balances after any sequence of
	// operations.
	s, err := committee.TestInvoke(t, "iterateAllowances", nativeSymbol)
	require.NoError(t, err)
	iter := s.Pop().Value().(*storage.Iterator)

	var total int64
	for _, kv := range iteratorToArray(iter) {
		pair := kv.Value().([]stackitem.Item)
		require.Len(t, pair, 2)

		balances := pair[1].Value().([]stackitem.Item)
		free, err := balances[0].TryInteger()
		require.NoError(t, err)
		locked, err := balances[1].TryInteger()
		require.NoError(t, err)

		total += free.Int64() + locked.Int64()
	}

	require.Equal(t, balanceOf(t, e, gasHash, feeHash), total)
	require.EqualValues(t, 10, total) // 7-2 + 9-4
}

func TestVersion(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)

	s, err := e.CommitteeInvoker(feeHash).TestInvoke(t, "version")
	require.NoError(t, err)
	require.EqualValues(t, common.Version, s.Pop().BigInt().Int64())
}

func TestOwner(t *testing.T) {
	e := newExecutor(t)
	feeHash := deployFeeContract(t, e, 1)

	s, err := e.CommitteeInvoker(feeHash).TestInvoke(t, "owner")
	require.NoError(t, err)
	owner, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, e.CommitteeHash.BytesBE(), owner)
}
