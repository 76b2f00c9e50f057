/*
Package fee implements Fee contract which is deployed to TaskMesh chain.

Fee contract is the escrow accounting core of the TaskMesh compute-task
marketplace. Participants deposit value in one of the supported fee tokens
(native GAS or NEP-17 contracts registered by the contract owner) and the
contract tracks, per depositor and per token, how much of it is freely
spendable and how much is locked as collateral against an in-flight task.

At task submission the task lifecycle service locks the task's escrow
requirement (computing price per worker owner plus data price per data
provider) against the submitter's free balance and the contract stores an
escrow record for the task. At terminal resolution the same service settles
the task: completed tasks pay the escrowed amount out to worker owners and
data providers, failed or cancelled tasks return it to the submitter's free
balance. The escrow record is consumed by settlement, so every task settles
at most once.

The contract is the sole custodian of deposited value: for every token, the
token balance of the contract account equals the sum of free and locked
balances over all depositors. Any failure in the middle of an operation
faults the transaction and leaves both the ledger and custody untouched.

# Contract notifications

TokenRegistered notification. Produced when the owner registers an external
fee token.

	TokenRegistered:
	  - name: symbol
	    type: String
	  - name: token
	    type: Hash160
	  - name: computingPrice
	    type: Integer

TokenStatusChanged notification. Produced when the owner enables or disables
a registered token.

	TokenStatusChanged:
	  - name: symbol
	    type: String
	  - name: enabled
	    type: Boolean

Deposit notification. Produced when incoming value is credited to a free
balance.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: symbol
	    type: String
	  - name: amount
	    type: Integer

Withdraw notification. Produced when free balance leaves the contract's
custody back to its owner.

	Withdraw:
	  - name: owner
	    type: Hash160
	  - name: symbol
	    type: String
	  - name: amount
	    type: Integer

Lock notification. Produced when a task's escrow requirement is reserved
against the submitter's free balance. External auditors correlate the task
with the locked amount through it.

	Lock:
	  - name: taskId
	    type: Hash256
	  - name: submitter
	    type: Hash160
	  - name: symbol
	    type: String
	  - name: amount
	    type: Integer

Settle notification. Produced when a task's escrow is released, either to
recipients or back to the submitter.

	Settle:
	  - name: taskId
	    type: Hash256
	  - name: status
	    type: Integer
	  - name: amount
	    type: Integer
*/
package fee

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   script hash of the contract owner
 - 's' -> std.Serialize([][]byte)
   symbols of all registered tokens in registration order, native first
 - t<symbol> -> std.Serialize(FeeToken)
   registered token record
 - h<interop.Hash160> -> symbol
   reverse index from token contract hash to its symbol, used to validate
   incoming NEP-17 transfers
 - a<symbol><interop.Hash160> -> std.Serialize(Allowance)
   free/locked balance pair of one depositor in one token
 - e<interop.Hash256> -> std.Serialize(Escrow)
   escrow record of one in-flight task

# Accounting
Allowance records are created lazily on first deposit and are never deleted,
only driven back towards zero. Escrow records live from Lock to Settle.
*/
