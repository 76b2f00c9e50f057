package fee

import (
	"github.com/taskmesh/taskmesh-contract/contracts/fee/feeconst"
)

const (
	// UnknownTokenError is returned on lookups of tokens that were never
	// registered or are currently disabled.
	UnknownTokenError = feeconst.ErrUnknownToken

	// TokenExistsError is returned on attempts to register a token with an
	// already taken symbol or script hash.
	TokenExistsError = feeconst.ErrTokenExists

	// InvalidPriceError is returned on non-positive computing prices and
	// negative data prices.
	InvalidPriceError = feeconst.ErrInvalidPrice

	// ValueMismatchError is returned when the declared deposit amount does
	// not equal the transferred one.
	ValueMismatchError = feeconst.ErrValueMismatch

	// NotApprovedError is returned when the fee token refuses to transfer
	// funds from the depositor's account.
	NotApprovedError = feeconst.ErrNotApproved

	// TransferFailedError is returned when an outbound token transfer fails.
	TransferFailedError = feeconst.ErrTransferFailed

	// InsufficientFreeError is returned when the free balance does not cover
	// the requested lock or withdrawal.
	InsufficientFreeError = feeconst.ErrInsufficientFree

	// InsufficientLockedError is returned when the locked balance does not
	// cover the settled amount.
	InsufficientLockedError = feeconst.ErrInsufficientLocked

	// EscrowExistsError is returned on repeated locks for one task.
	EscrowExistsError = feeconst.ErrEscrowExists

	// EscrowNotFoundError is returned on settling a task that has no active
	// escrow.
	EscrowNotFoundError = feeconst.ErrEscrowNotFound

	// EscrowMismatchError is returned when settle arguments diverge from the
	// recorded escrow.
	EscrowMismatchError = feeconst.ErrEscrowMismatch

	// BadStatusError is returned on terminal task statuses the contract does
	// not recognize.
	BadStatusError = feeconst.ErrBadStatus
)
