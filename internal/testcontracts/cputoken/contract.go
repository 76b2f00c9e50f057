// Package cputoken implements a minimal mintable NEP-17 token used in tests
// as an external fee token.
package cputoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	symbol   = "CPU"
	decimals = 8

	ownerKey  = 'o'
	supplyKey = 's'

	balancePrefix = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})
	if len(args.owner) != interop.Hash160Len {
		panic("incorrect owner script hash length")
	}

	storage.Put(storage.GetContext(), ownerKey, args.owner)
}

// Symbol is a NEP-17 standard method that returns the token symbol.
func Symbol() string {
	return symbol
}

// Decimals is a NEP-17 standard method that returns the token precision.
func Decimals() int {
	return decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// tokens.
func TotalSupply() int {
	return getSupply(storage.GetReadOnlyContext())
}

// BalanceOf is a NEP-17 standard method that returns the token balance of the
// account.
func BalanceOf(account interop.Hash160) int {
	return balanceOf(storage.GetReadOnlyContext(), account)
}

// Transfer is a NEP-17 standard method that transfers tokens from one account
// to another. It can be invoked by the account owner or by a contract calling
// on the owner's behalf under the owner's witness.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("incorrect script hash length")
	}
	if amount < 0 {
		panic("negative amount")
	}

	// Like native GAS, a contract may move its own funds without a witness.
	if !runtime.CheckWitness(from) && !runtime.GetCallingScriptHash().Equals(from) {
		return false
	}

	ctx := storage.GetContext()

	fromBalance := balanceOf(ctx, from)
	if fromBalance < amount {
		return false
	}

	putBalance(ctx, from, fromBalance-amount)
	putBalance(ctx, to, balanceOf(ctx, to)+amount)

	postTransfer(from, to, amount, data)

	return true
}

// Mint creates tokens on the account, increasing total supply. It can be
// invoked only by the token owner.
func Mint(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic("incorrect script hash length")
	}
	if amount <= 0 {
		panic("non positive amount number")
	}

	ctx := storage.GetContext()

	owner := storage.Get(ctx, ownerKey).(interop.Hash160)
	if !runtime.CheckWitness(owner) {
		panic("owner witness check failed")
	}

	putBalance(ctx, to, balanceOf(ctx, to)+amount)
	storage.Put(ctx, supplyKey, getSupply(ctx)+amount)

	postTransfer(nil, to, amount, nil)
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, supplyKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	balance := storage.Get(ctx, append([]byte{balancePrefix}, account...))
	if balance != nil {
		return balance.(int)
	}

	return 0
}

func putBalance(ctx storage.Context, account interop.Hash160, balance int) {
	if balance == 0 {
		storage.Delete(ctx, append([]byte{balancePrefix}, account...))
		return
	}

	storage.Put(ctx, append([]byte{balancePrefix}, account...), balance)
}
