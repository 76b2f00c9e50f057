package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

var (
	payoutPrefix   = []byte{0x01}
	withdrawPrefix = []byte{0x02}
)

// PayoutTransferDetails tags an outgoing task payout transfer with the task it
// settles. Recipient contracts receive it as the transfer data argument.
func PayoutTransferDetails(taskID []byte) []byte {
	return append(payoutPrefix, taskID...)
}

// WithdrawTransferDetails tags a withdrawal of free balance.
func WithdrawTransferDetails(owner []byte) []byte {
	return append(withdrawPrefix, owner...)
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
