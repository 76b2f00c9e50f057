// Package fee contains RPC wrappers for TaskMesh Fee contract.
package fee

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// FeeToken is a contract-specific fee.FeeToken type used by its methods.
type FeeToken struct {
	Symbol         string
	Hash           util.Uint160
	ComputingPrice *big.Int
	Enabled        bool
}

// FeeAllowance is a contract-specific fee.Allowance type used by its methods.
type FeeAllowance struct {
	Free   *big.Int
	Locked *big.Int
}

// FeeEscrow is a contract-specific fee.Escrow type used by its methods.
type FeeEscrow struct {
	Submitter util.Uint160
	Symbol    string
	Amount    *big.Int
}

// TokenRegisteredEvent represents "TokenRegistered" event emitted by the contract.
type TokenRegisteredEvent struct {
	Symbol         string
	TokenHash      util.Uint160
	ComputingPrice *big.Int
}

// TokenStatusChangedEvent represents "TokenStatusChanged" event emitted by the contract.
type TokenStatusChangedEvent struct {
	Symbol  string
	Enabled bool
}

// DepositEvent represents "Deposit" event emitted by the contract.
type DepositEvent struct {
	From   util.Uint160
	To     util.Uint160
	Symbol string
	Amount *big.Int
}

// WithdrawEvent represents "Withdraw" event emitted by the contract.
type WithdrawEvent struct {
	Owner  util.Uint160
	Symbol string
	Amount *big.Int
}

// LockEvent represents "Lock" event emitted by the contract.
type LockEvent struct {
	TaskID    util.Uint256
	Submitter util.Uint160
	Symbol    string
	Amount    *big.Int
}

// SettleEvent represents "Settle" event emitted by the contract.
type SettleEvent struct {
	TaskID util.Uint256
	Status *big.Int
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetAllowance invokes `getAllowance` method of contract.
func (c *ContractReader) GetAllowance(owner util.Uint160, symbol string) (*FeeAllowance, error) {
	return itemToFeeAllowance(unwrap.Item(c.invoker.Call(c.hash, "getAllowance", owner, symbol)))
}

// GetEscrow invokes `getEscrow` method of contract.
func (c *ContractReader) GetEscrow(taskID util.Uint256) (*FeeEscrow, error) {
	return itemToFeeEscrow(unwrap.Item(c.invoker.Call(c.hash, "getEscrow", taskID)))
}

// GetToken invokes `getToken` method of contract.
func (c *ContractReader) GetToken(symbol string) (*FeeToken, error) {
	return itemToFeeToken(unwrap.Item(c.invoker.Call(c.hash, "getToken", symbol)))
}

// IsSupported invokes `isSupported` method of contract.
func (c *ContractReader) IsSupported(symbol string) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isSupported", symbol))
}

// IterateAllowances invokes `iterateAllowances` method of contract.
func (c *ContractReader) IterateAllowances(symbol string) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateAllowances", symbol))
}

// IterateAllowancesExpanded is similar to IterateAllowances (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that iterates over iterator
// values and returns them all as a single array.
func (c *ContractReader) IterateAllowancesExpanded(symbol string, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateAllowances", _numOfIteratorItems, symbol))
}

// IterateEscrows invokes `iterateEscrows` method of contract.
func (c *ContractReader) IterateEscrows() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateEscrows"))
}

// IterateEscrowsExpanded is similar to IterateEscrows (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that iterates over iterator
// values and returns them all as a single array.
func (c *ContractReader) IterateEscrowsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateEscrows", _numOfIteratorItems))
}

// ListTokens invokes `listTokens` method of contract.
func (c *ContractReader) ListTokens() ([]*FeeToken, error) {
	arr, err := unwrap.Array(c.invoker.Call(c.hash, "listTokens"))
	if err != nil {
		return nil, err
	}
	res := make([]*FeeToken, len(arr))
	for i := range arr {
		res[i], err = itemToFeeToken(arr[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Deposit creates a transaction invoking `deposit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(from util.Uint160, symbol string, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deposit", from, symbol, amount)
}

// DepositTransaction creates a transaction invoking `deposit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTransaction(from util.Uint160, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deposit", from, symbol, amount)
}

// DepositUnsigned creates a transaction invoking `deposit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositUnsigned(from util.Uint160, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deposit", nil, from, symbol, amount)
}

// Lock creates a transaction invoking `lock` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Lock(taskID util.Uint256, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "lock", taskID, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// LockTransaction creates a transaction invoking `lock` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) LockTransaction(taskID util.Uint256, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "lock", taskID, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// LockUnsigned creates a transaction invoking `lock` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) LockUnsigned(taskID util.Uint256, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "lock", nil, taskID, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// RegisterToken creates a transaction invoking `registerToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterToken(symbol string, tokenHash util.Uint160, computingPrice *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerToken", symbol, tokenHash, computingPrice)
}

// RegisterTokenTransaction creates a transaction invoking `registerToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterTokenTransaction(symbol string, tokenHash util.Uint160, computingPrice *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerToken", symbol, tokenHash, computingPrice)
}

// RegisterTokenUnsigned creates a transaction invoking `registerToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterTokenUnsigned(symbol string, tokenHash util.Uint160, computingPrice *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerToken", nil, symbol, tokenHash, computingPrice)
}

// SetTokenEnabled creates a transaction invoking `setTokenEnabled` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetTokenEnabled(symbol string, enabled bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setTokenEnabled", symbol, enabled)
}

// SetTokenEnabledTransaction creates a transaction invoking `setTokenEnabled` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetTokenEnabledTransaction(symbol string, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setTokenEnabled", symbol, enabled)
}

// SetTokenEnabledUnsigned creates a transaction invoking `setTokenEnabled` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetTokenEnabledUnsigned(symbol string, enabled bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setTokenEnabled", nil, symbol, enabled)
}

// Settle creates a transaction invoking `settle` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Settle(taskID util.Uint256, status *big.Int, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "settle", taskID, status, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// SettleTransaction creates a transaction invoking `settle` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SettleTransaction(taskID util.Uint256, status *big.Int, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "settle", taskID, status, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// SettleUnsigned creates a transaction invoking `settle` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SettleUnsigned(taskID util.Uint256, status *big.Int, submitter util.Uint160, symbol string, workerOwners []util.Uint160, dataPrice *big.Int, dataProviders []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "settle", nil, taskID, status, submitter, symbol, workerOwners, dataPrice, dataProviders)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(owner util.Uint160, symbol string, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", owner, symbol, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(owner util.Uint160, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", owner, symbol, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(owner util.Uint160, symbol string, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, owner, symbol, amount)
}

// itemToFeeToken converts stack item into *FeeToken.
func itemToFeeToken(item stackitem.Item, err error) (*FeeToken, error) {
	if err != nil {
		return nil, err
	}
	var res = new(FeeToken)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of FeeToken from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *FeeToken) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Hash, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	index++
	res.ComputingPrice, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ComputingPrice: %w", err)
	}

	index++
	res.Enabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	return nil
}

// itemToFeeAllowance converts stack item into *FeeAllowance.
func itemToFeeAllowance(item stackitem.Item, err error) (*FeeAllowance, error) {
	if err != nil {
		return nil, err
	}
	var res = new(FeeAllowance)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of FeeAllowance from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *FeeAllowance) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Free, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Free: %w", err)
	}

	index++
	res.Locked, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Locked: %w", err)
	}

	return nil
}

// itemToFeeEscrow converts stack item into *FeeEscrow.
func itemToFeeEscrow(item stackitem.Item, err error) (*FeeEscrow, error) {
	if err != nil {
		return nil, err
	}
	var res = new(FeeEscrow)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of FeeEscrow from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *FeeEscrow) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Submitter, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Submitter: %w", err)
	}

	index++
	res.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// TokenRegisteredEventsFromApplicationLog retrieves a set of all emitted events
// with "TokenRegistered" name from the provided [result.ApplicationLog].
func TokenRegisteredEventsFromApplicationLog(log *result.ApplicationLog) ([]*TokenRegisteredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TokenRegisteredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TokenRegistered" {
				continue
			}
			event := new(TokenRegisteredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TokenRegisteredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TokenRegisteredEvent or
// returns an error if it's not possible to do to so.
func (e *TokenRegisteredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	e.TokenHash, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field TokenHash: %w", err)
	}

	index++
	e.ComputingPrice, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ComputingPrice: %w", err)
	}

	return nil
}

// TokenStatusChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "TokenStatusChanged" name from the provided [result.ApplicationLog].
func TokenStatusChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TokenStatusChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TokenStatusChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TokenStatusChanged" {
				continue
			}
			event := new(TokenStatusChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TokenStatusChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TokenStatusChangedEvent or
// returns an error if it's not possible to do to so.
func (e *TokenStatusChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	e.Enabled, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Enabled: %w", err)
	}

	return nil
}

// DepositEventsFromApplicationLog retrieves a set of all emitted events
// with "Deposit" name from the provided [result.ApplicationLog].
func DepositEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Deposit" {
				continue
			}
			event := new(DepositEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositEvent or
// returns an error if it's not possible to do to so.
func (e *DepositEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.From, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// WithdrawEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdraw" name from the provided [result.ApplicationLog].
func WithdrawEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*WithdrawEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Withdraw" {
				continue
			}
			event := new(WithdrawEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize WithdrawEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to WithdrawEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Owner, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	e.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// LockEventsFromApplicationLog retrieves a set of all emitted events
// with "Lock" name from the provided [result.ApplicationLog].
func LockEventsFromApplicationLog(log *result.ApplicationLog) ([]*LockEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*LockEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Lock" {
				continue
			}
			event := new(LockEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize LockEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to LockEvent or
// returns an error if it's not possible to do to so.
func (e *LockEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.TaskID, err = func(item stackitem.Item) (util.Uint256, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint256{}, err
		}
		u, err := util.Uint256DecodeBytesBE(b)
		if err != nil {
			return util.Uint256{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field TaskID: %w", err)
	}

	index++
	e.Submitter, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Submitter: %w", err)
	}

	index++
	e.Symbol, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// SettleEventsFromApplicationLog retrieves a set of all emitted events
// with "Settle" name from the provided [result.ApplicationLog].
func SettleEventsFromApplicationLog(log *result.ApplicationLog) ([]*SettleEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SettleEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Settle" {
				continue
			}
			event := new(SettleEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SettleEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SettleEvent or
// returns an error if it's not possible to do to so.
func (e *SettleEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.TaskID, err = func(item stackitem.Item) (util.Uint256, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint256{}, err
		}
		u, err := util.Uint256DecodeBytesBE(b)
		if err != nil {
			return util.Uint256{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field TaskID: %w", err)
	}

	index++
	e.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
