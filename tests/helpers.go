package tests

import (
	"crypto/sha256"
	"math/rand"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	feePath   = "../contracts/fee"
	tokenPath = "../internal/testcontracts/cputoken"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// deployFeeContract deploys the fee contract owned by the committee with the
// given native computing price.
func deployFeeContract(t *testing.T, e *neotest.Executor, nativePrice int64) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, feePath, path.Join(feePath, "config.yml"))
	e.DeployContract(t, c, []any{e.CommitteeHash, nativePrice})
	return c.Hash
}

// deployTokenContract deploys the auxiliary NEP-17 token with the committee
// as its minter.
func deployTokenContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, []any{e.CommitteeHash})
	return c.Hash
}

// randomTaskID returns a fresh task ID, a hash of a unique task identity the
// way the task lifecycle service derives it.
func randomTaskID() util.Uint256 {
	u := uuid.New()
	return util.Uint256(sha256.Sum256(u[:]))
}

func randomHash160() util.Uint160 {
	var h util.Uint160
	rand.Read(h[:]) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return h
}

func randomRecipients(n int) []util.Uint160 {
	recipients := make([]util.Uint160, n)
	for i := range recipients {
		recipients[i] = randomHash160()
	}
	return recipients
}

// asArgs converts a recipient list to an invocation argument.
func asArgs(recipients []util.Uint160) []any {
	args := make([]any, len(recipients))
	for i := range recipients {
		args[i] = recipients[i]
	}
	return args
}

// balanceOf returns the NEP-17 balance of the account on the given token
// contract.
func balanceOf(t *testing.T, e *neotest.Executor, tokenHash, acc util.Uint160) int64 {
	s, err := e.CommitteeInvoker(tokenHash).TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

// allowanceOf returns free and locked ledger balances of the account.
func allowanceOf(t *testing.T, inv *neotest.ContractInvoker, owner util.Uint160, symbol string) (int64, int64) {
	s, err := inv.TestInvoke(t, "getAllowance", owner, symbol)
	require.NoError(t, err)

	items := s.Pop().Array()
	require.Len(t, items, 2)

	free, err := items[0].TryInteger()
	require.NoError(t, err)
	locked, err := items[1].TryInteger()
	require.NoError(t, err)

	return free.Int64(), locked.Int64()
}

// requireAllowance checks the ledger state of the account in one token.
func requireAllowance(t *testing.T, inv *neotest.ContractInvoker, owner util.Uint160, symbol string, free, locked int64) {
	actualFree, actualLocked := allowanceOf(t, inv, owner, symbol)
	require.Equal(t, free, actualFree)
	require.Equal(t, locked, actualLocked)
}

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}
