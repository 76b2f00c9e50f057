package fee

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/taskmesh/taskmesh-contract/common"
	"github.com/taskmesh/taskmesh-contract/contracts/fee/feeconst"
	"github.com/taskmesh/taskmesh-contract/contracts/fee/taskstatus"
)

type (
	// FeeToken binds a payment token symbol to the NEP-17 contract backing
	// it and to the computing price charged in it per worker.
	FeeToken struct {
		// Ticker symbol.
		Symbol string
		// Script hash of the backing NEP-17 contract. The native entry
		// holds the GAS contract hash.
		Hash interop.Hash160
		// Price charged per worker owner, immutable after registration.
		ComputingPrice int
		// Disabled tokens are rejected by all operations.
		Enabled bool
	}

	// Allowance is the balance sheet of one depositor in one fee token.
	Allowance struct {
		// Spendable balance.
		Free int
		// Balance reserved against in-flight tasks.
		Locked int
	}

	// Escrow is the per-task record created by Lock and consumed exactly
	// once by Settle.
	Escrow struct {
		Submitter interop.Hash160
		Symbol    string
		Amount    int
	}
)

const (
	ownerKey   = 'o'
	symbolsKey = 's'

	tokenPrefix     = 't'
	hashPrefix      = 'h'
	allowancePrefix = 'a'
	escrowPrefix    = 'e'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner       interop.Hash160
		nativePrice int
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect owner script hash length")
	}
	if args.nativePrice <= 0 {
		panic(feeconst.ErrInvalidPrice)
	}

	storage.Put(ctx, ownerKey, args.owner)

	putToken(ctx, FeeToken{
		Symbol:         feeconst.NativeSymbol,
		Hash:           interop.Hash160(gas.Hash),
		ComputingPrice: args.nativePrice,
		Enabled:        true,
	})

	runtime.Log("fee contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	common.CheckOwnerWitness(contractOwner(storage.GetReadOnlyContext()))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("fee contract updated")
}

// Owner returns the script hash of the account allowed to register tokens and
// update the contract.
func Owner() interop.Hash160 {
	return contractOwner(storage.GetReadOnlyContext())
}

// RegisterToken adds an external NEP-17 contract as a supported fee token
// under the given symbol with a fixed per-worker computing price. It can be
// invoked only by the contract owner.
//
// It produces TokenRegistered notification.
func RegisterToken(symbol string, tokenHash interop.Hash160, computingPrice int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(contractOwner(ctx))

	if len(symbol) == 0 {
		panic("empty token symbol")
	}
	if len(tokenHash) != interop.Hash160Len {
		panic("incorrect token script hash length")
	}
	if computingPrice <= 0 {
		panic(feeconst.ErrInvalidPrice)
	}
	if storage.Get(ctx, append([]byte{tokenPrefix}, symbol...)) != nil {
		panic(feeconst.ErrTokenExists)
	}
	if storage.Get(ctx, append([]byte{hashPrefix}, tokenHash...)) != nil {
		panic(feeconst.ErrTokenExists)
	}

	putToken(ctx, FeeToken{
		Symbol:         symbol,
		Hash:           tokenHash,
		ComputingPrice: computingPrice,
		Enabled:        true,
	})

	runtime.Log("fee token has been registered")
	runtime.Notify("TokenRegistered", symbol, tokenHash, computingPrice)
}

// SetTokenEnabled enables or disables a registered token. The native token
// cannot be disabled. It can be invoked only by the contract owner.
//
// Disabled tokens keep their ledger records but reject deposits, locks and
// lookups until re-enabled.
func SetTokenEnabled(symbol string, enabled bool) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(contractOwner(ctx))

	if symbol == feeconst.NativeSymbol && !enabled {
		panic("native token cannot be disabled")
	}

	data := storage.Get(ctx, append([]byte{tokenPrefix}, symbol...))
	if data == nil {
		panic(feeconst.ErrUnknownToken)
	}

	t := std.Deserialize(data.([]byte)).(FeeToken)
	t.Enabled = enabled
	common.SetSerialized(ctx, append([]byte{tokenPrefix}, symbol...), t)

	runtime.Notify("TokenStatusChanged", symbol, enabled)
}

// IsSupported returns true if the symbol is registered and enabled.
func IsSupported(symbol string) bool {
	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{tokenPrefix}, symbol...))
	if data == nil {
		return false
	}

	return std.Deserialize(data.([]byte)).(FeeToken).Enabled
}

// ListTokens returns all registered tokens, including disabled ones, in
// registration order with the native token first.
func ListTokens() []FeeToken {
	ctx := storage.GetReadOnlyContext()

	tokens := []FeeToken{}
	symbols := common.GetList(ctx, symbolsKey)
	for i := range symbols {
		data := storage.Get(ctx, append([]byte{tokenPrefix}, symbols[i]...))
		tokens = append(tokens, std.Deserialize(data.([]byte)).(FeeToken))
	}

	return tokens
}

// GetToken returns the registered token for the symbol. It panics if the
// symbol is not registered or is disabled.
func GetToken(symbol string) FeeToken {
	return getToken(storage.GetReadOnlyContext(), symbol)
}

// GetAllowance returns free and locked balances of the depositor in the given
// token. Accounts that never deposited have both balances at zero.
func GetAllowance(owner interop.Hash160, symbol string) Allowance {
	if len(owner) != interop.Hash160Len {
		panic("incorrect owner script hash length")
	}

	return getAllowance(storage.GetReadOnlyContext(), symbol, owner)
}

// IterateAllowances iterates over all allowance records of the given token.
// Iteration is through key-value pairs, where key is the depositor script
// hash and value is the Allowance structure.
func IterateAllowances(symbol string) iterator.Iterator {
	prefix := append([]byte{allowancePrefix}, symbol...)
	return storage.Find(storage.GetReadOnlyContext(), prefix, storage.RemovePrefix|storage.DeserializeValues)
}

// Deposit tops the depositor's free balance in the given token up by pulling
// the amount from the depositor's account into the contract's custody. It can
// be invoked only by the depositor.
//
// For the native token the underlying GAS transfer is performed under the
// depositor's witness. For external tokens the depositor's witness plays the
// role of a transfer approval on the token contract; a refused transfer fails
// the deposit. The credited amount is checked against the declared one in
// OnNEP17Payment, which is the single crediting point.
func Deposit(from interop.Hash160, symbol string, amount int) {
	if len(from) != interop.Hash160Len {
		panic("incorrect depositor script hash length")
	}
	if !runtime.CheckWitness(from) {
		panic(common.ErrOwnerWitnessFailed)
	}
	if amount <= 0 {
		panic("non positive amount number")
	}

	t := getToken(storage.GetReadOnlyContext(), symbol)

	self := runtime.GetExecutingScriptHash()
	transferred := contract.Call(t.Hash, "transfer", contract.All,
		from, self, amount, []any{from, amount}).(bool)
	if !transferred {
		if symbol == feeconst.NativeSymbol {
			panic(feeconst.ErrTransferFailed)
		}
		panic(feeconst.ErrNotApproved)
	}
}

// OnNEP17Payment is a callback for incoming transfers from registered fee
// token contracts. It credits the received amount to the beneficiary's free
// balance. Transfers from any other contract are aborted.
//
// The data argument is either nil (the sender is the beneficiary) or a
// two-element array of the beneficiary script hash (empty value defaults to
// the sender) and the declared deposit amount. A declared amount that does
// not equal the received one aborts the transfer.
//
// It produces Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}

	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	rawSymbol := storage.Get(ctx, append([]byte{hashPrefix}, caller...))
	if rawSymbol == nil {
		common.AbortWithMessage(feeconst.ErrUnknownToken)
	}
	symbol := rawSymbol.(string)

	rawToken := storage.Get(ctx, append([]byte{tokenPrefix}, symbol...))
	if !std.Deserialize(rawToken.([]byte)).(FeeToken).Enabled {
		common.AbortWithMessage(feeconst.ErrUnknownToken)
	}

	rcv := from
	if data != nil {
		args := data.([]any)
		if len(args) != 2 {
			common.AbortWithMessage("invalid data argument")
		}

		target := args[0].(interop.Hash160)
		switch len(target) {
		case interop.Hash160Len:
			rcv = target
		case 0:
		default:
			common.AbortWithMessage("invalid data argument, expected Hash160")
		}

		if args[1].(int) != amount {
			common.AbortWithMessage(feeconst.ErrValueMismatch)
		}
	}

	a := getAllowance(ctx, symbol, rcv)
	a.Free += amount
	putAllowance(ctx, symbol, rcv, a)

	runtime.Notify("Deposit", from, rcv, symbol, amount)
}

// Withdraw returns the amount of the owner's free balance back to the owner's
// account. It can be invoked only by the balance owner.
//
// It produces Withdraw notification.
func Withdraw(owner interop.Hash160, symbol string, amount int) {
	if len(owner) != interop.Hash160Len {
		panic("incorrect owner script hash length")
	}
	if !runtime.CheckWitness(owner) {
		panic(common.ErrOwnerWitnessFailed)
	}
	if amount <= 0 {
		panic("non positive amount number")
	}

	ctx := storage.GetContext()
	t := getToken(ctx, symbol)

	a := getAllowance(ctx, symbol, owner)
	if a.Free < amount {
		panic(feeconst.ErrInsufficientFree)
	}
	a.Free -= amount
	putAllowance(ctx, symbol, owner, a)

	pushOut(t, owner, amount, common.WithdrawTransferDetails(owner))

	runtime.Notify("Withdraw", owner, symbol, amount)
}

// Lock reserves the escrow required for the task against the submitter's free
// balance and stores the escrow record for the task. The required amount is
// the token's computing price per worker owner plus the per-task data price
// per data provider. No transfer occurs, the value is already in custody from
// prior deposits. It can be invoked only by the chain committee.
//
// It produces Lock notification.
func Lock(taskID interop.Hash256, submitter interop.Hash160, symbol string, workerOwners []interop.Hash160, dataPrice int, dataProviders []interop.Hash160) {
	common.CheckCommitteeWitness()

	if len(taskID) != interop.Hash256Len {
		panic("invalid task id")
	}
	if len(submitter) != interop.Hash160Len {
		panic("incorrect submitter script hash length")
	}

	ctx := storage.GetContext()
	t := getToken(ctx, symbol)

	key := append([]byte{escrowPrefix}, taskID...)
	if storage.Get(ctx, key) != nil {
		panic(feeconst.ErrEscrowExists)
	}

	required := requiredAmount(t, workerOwners, dataPrice, dataProviders)

	a := getAllowance(ctx, symbol, submitter)
	if a.Free < required {
		panic(feeconst.ErrInsufficientFree)
	}
	a.Free -= required
	a.Locked += required
	putAllowance(ctx, symbol, submitter, a)

	common.SetSerialized(ctx, key, Escrow{
		Submitter: submitter,
		Symbol:    symbol,
		Amount:    required,
	})

	runtime.Notify("Lock", taskID, submitter, symbol, required)
}

// Settle releases the task's escrow according to the terminal status: payout
// statuses transfer the computing price to every worker owner and the data
// price to every data provider, refund statuses return the whole amount to
// the submitter's free balance. The recomputed required amount, submitter and
// symbol must match the escrow record stored by Lock; the record is consumed,
// so a second settle of the same task fails. It can be invoked only by the
// chain committee.
//
// Locked balance is debited and the escrow record is removed before any
// outbound transfer is made, so recipient code called during payout observes
// already-settled state.
//
// It produces Settle notification.
func Settle(taskID interop.Hash256, status int, submitter interop.Hash160, symbol string, workerOwners []interop.Hash160, dataPrice int, dataProviders []interop.Hash160) {
	common.CheckCommitteeWitness()

	if len(taskID) != interop.Hash256Len {
		panic("invalid task id")
	}

	action := taskstatus.ActionOf(taskstatus.Status(status))
	if action == taskstatus.ActionUnknown {
		panic(feeconst.ErrBadStatus)
	}

	ctx := storage.GetContext()
	t := getToken(ctx, symbol)

	key := append([]byte{escrowPrefix}, taskID...)
	data := storage.Get(ctx, key)
	if data == nil {
		panic(feeconst.ErrEscrowNotFound)
	}
	esc := std.Deserialize(data.([]byte)).(Escrow)

	required := requiredAmount(t, workerOwners, dataPrice, dataProviders)
	if required != esc.Amount || symbol != esc.Symbol || !submitter.Equals(esc.Submitter) {
		panic(feeconst.ErrEscrowMismatch)
	}

	a := getAllowance(ctx, symbol, esc.Submitter)
	if a.Locked < required {
		panic(feeconst.ErrInsufficientLocked)
	}
	a.Locked -= required
	if action == taskstatus.ActionRefund {
		a.Free += required
	}
	putAllowance(ctx, symbol, esc.Submitter, a)

	storage.Delete(ctx, key)

	if action == taskstatus.ActionPayout {
		details := common.PayoutTransferDetails(taskID)
		for i := range workerOwners {
			pushOut(t, workerOwners[i], t.ComputingPrice, details)
		}
		for i := range dataProviders {
			pushOut(t, dataProviders[i], dataPrice, details)
		}
	}

	runtime.Notify("Settle", taskID, status, required)
}

// GetEscrow returns the escrow record held for the task. It panics if the
// task holds no escrow.
func GetEscrow(taskID interop.Hash256) Escrow {
	if len(taskID) != interop.Hash256Len {
		panic("invalid task id")
	}

	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{escrowPrefix}, taskID...))
	if data == nil {
		panic(feeconst.ErrEscrowNotFound)
	}

	return std.Deserialize(data.([]byte)).(Escrow)
}

// IterateEscrows iterates over all tasks currently holding escrow. Iteration
// is through key-value pairs, where key is the task ID and value is the
// Escrow structure.
func IterateEscrows() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{escrowPrefix}, storage.RemovePrefix|storage.DeserializeValues)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// requiredAmount computes the escrow requirement from the task shape. Lock
// and Settle share it, so both always agree for the same arguments.
func requiredAmount(t FeeToken, workerOwners []interop.Hash160, dataPrice int, dataProviders []interop.Hash160) int {
	if dataPrice < 0 {
		panic(feeconst.ErrInvalidPrice)
	}

	return t.ComputingPrice*len(workerOwners) + dataPrice*len(dataProviders)
}

// pushOut transfers the amount from the contract's custody to the recipient.
// Zero amounts are skipped. A rejected transfer panics, reverting the whole
// settlement including transfers already made in the same call.
func pushOut(t FeeToken, rcv interop.Hash160, amount int, details []byte) {
	if amount == 0 {
		return
	}
	if len(rcv) != interop.Hash160Len {
		panic("incorrect recipient script hash length")
	}

	self := runtime.GetExecutingScriptHash()
	transferred := contract.Call(t.Hash, "transfer", contract.All, self, rcv, amount, details).(bool)
	if !transferred {
		panic(feeconst.ErrTransferFailed)
	}
}

func putToken(ctx storage.Context, t FeeToken) {
	common.SetSerialized(ctx, append([]byte{tokenPrefix}, t.Symbol...), t)
	storage.Put(ctx, append([]byte{hashPrefix}, t.Hash...), t.Symbol)

	symbols := common.GetList(ctx, symbolsKey)
	symbols = append(symbols, []byte(t.Symbol))
	common.SetSerialized(ctx, symbolsKey, symbols)
}

func getToken(ctx storage.Context, symbol string) FeeToken {
	data := storage.Get(ctx, append([]byte{tokenPrefix}, symbol...))
	if data == nil {
		panic(feeconst.ErrUnknownToken)
	}

	t := std.Deserialize(data.([]byte)).(FeeToken)
	if !t.Enabled {
		panic(feeconst.ErrUnknownToken)
	}

	return t
}

// allowanceKey is the allowance storage key. The owner hash has fixed length
// and goes last, so (symbol, owner) pairs never collide.
func allowanceKey(symbol string, owner interop.Hash160) []byte {
	key := append([]byte{allowancePrefix}, symbol...)
	return append(key, owner...)
}

func getAllowance(ctx storage.Context, symbol string, owner interop.Hash160) Allowance {
	data := storage.Get(ctx, allowanceKey(symbol, owner))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Allowance)
	}

	return Allowance{}
}

func putAllowance(ctx storage.Context, symbol string, owner interop.Hash160, a Allowance) {
	common.SetSerialized(ctx, allowanceKey(symbol, owner), a)
}

func contractOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}
