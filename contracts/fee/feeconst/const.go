package feeconst

const (
	// NativeSymbol is the symbol of the implicit fee token backed by the
	// native GAS contract. It is registered at deploy time and is always
	// enabled.
	NativeSymbol = "GAS"

	// ErrUnknownToken is returned on any operation with a symbol that is
	// not registered or is disabled.
	ErrUnknownToken = "unknown fee token"

	// ErrTokenExists is returned on an attempt to register a symbol or a
	// token contract that is already registered.
	ErrTokenExists = "fee token already registered"

	// ErrInvalidPrice is returned on registration with a zero computing
	// price or on a negative per-call data price.
	ErrInvalidPrice = "invalid token price"

	// ErrValueMismatch is returned when the amount declared in a deposit
	// does not equal the amount actually transferred to the contract.
	ErrValueMismatch = "declared deposit amount mismatch"

	// ErrNotApproved is returned when an external token contract refuses
	// to transfer the deposit from the depositor's account.
	ErrNotApproved = "token transfer not approved by depositor"

	// ErrTransferFailed is returned when an underlying token transfer is
	// rejected.
	ErrTransferFailed = "failed to transfer funds, aborting"

	// ErrInsufficientFree is returned when the free balance does not cover
	// the requested lock or withdrawal.
	ErrInsufficientFree = "insufficient free balance"

	// ErrInsufficientLocked is returned when the locked balance does not
	// cover the settled amount.
	ErrInsufficientLocked = "insufficient locked balance"

	// ErrEscrowExists is returned on an attempt to lock a task that
	// already holds escrow.
	ErrEscrowExists = "task escrow already exists"

	// ErrEscrowNotFound is returned on settling or reading a task that
	// holds no escrow. In particular, a second settle of the same task
	// fails with it.
	ErrEscrowNotFound = "task escrow not found"

	// ErrEscrowMismatch is returned when settle arguments disagree with
	// the escrow record stored by lock.
	ErrEscrowMismatch = "settle arguments do not match escrow record"

	// ErrBadStatus is returned on settling with a status that has no
	// configured payout or refund action.
	ErrBadStatus = "unsupported terminal task status"
)
