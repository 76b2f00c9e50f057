// Command dump prints the full ledger state of a deployed fee contract: the
// registered token registry, all per-owner balance sheets and all active task
// escrows. It talks to a Neo RPC node and walks the contract storage through
// the state service, so the node must have state root serving enabled.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/taskmesh/taskmesh-contract/rpc/fee"
)

// Storage schema of the fee contract.
const (
	tokenPrefix     = 't'
	allowancePrefix = 'a'
	escrowPrefix    = 'e'
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "Fee contract hash in LE form")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing fee contract hash")
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractHash, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode fee contract hash: %w", err))
	}

	err = _dump(*neoRPCEndpoint, h)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoBlockchainRPCEndpoint string, contractHash util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	log.Printf("Dumping fee contract %s at block #%d\n", contractHash.StringLE(), b.currentBlock)

	reader := fee.NewReader(b.invoker, contractHash)

	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("get contract version: %w", err)
	}

	owner, err := reader.Owner()
	if err != nil {
		return fmt.Errorf("get contract owner: %w", err)
	}

	log.Printf("Version %s, owner %s\n", version, owner.StringLE())

	tokens, err := reader.ListTokens()
	if err != nil {
		return fmt.Errorf("list registered tokens: %w", err)
	}

	for _, t := range tokens {
		log.Printf("Token %s: hash %s, computing price %s, enabled %t\n",
			t.Symbol, t.Hash.StringLE(), t.ComputingPrice, t.Enabled)
	}

	var allowances, escrows int

	err = b.iterateContractStorage(contractHash, func(key, value []byte) error {
		if len(key) == 0 {
			return nil
		}

		switch key[0] {
		case allowancePrefix:
			if len(key) < 1+util.Uint160Size+1 {
				return fmt.Errorf("invalid allowance key length %d", len(key))
			}

			symbol := string(key[1 : len(key)-util.Uint160Size])

			ownerAcc, err := util.Uint160DecodeBytesBE(key[len(key)-util.Uint160Size:])
			if err != nil {
				return fmt.Errorf("decode allowance owner: %w", err)
			}

			var a fee.FeeAllowance
			err = decodeStored(value, a.FromStackItem)
			if err != nil {
				return fmt.Errorf("decode allowance of %s in %s: %w", ownerAcc.StringLE(), symbol, err)
			}

			log.Printf("Allowance %s %s: free %s, locked %s\n", ownerAcc.StringLE(), symbol, a.Free, a.Locked)
			allowances++
		case escrowPrefix:
			if len(key) != 1+util.Uint256Size {
				return fmt.Errorf("invalid escrow key length %d", len(key))
			}

			var id fee.TaskID
			copy(id[:], key[1:])

			var e fee.FeeEscrow
			err := decodeStored(value, e.FromStackItem)
			if err != nil {
				return fmt.Errorf("decode escrow of task %s: %w", id, err)
			}

			log.Printf("Escrow %s: submitter %s, %s %s\n", id, e.Submitter.StringLE(), e.Amount, e.Symbol)
			escrows++
		case tokenPrefix:
			// Already listed through the contract API.
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	log.Printf("Done: %d tokens, %d allowances, %d active escrows\n", len(tokens), allowances, escrows)

	return nil
}

// decodeStored deserializes a storage item value and fills the target through
// its stack item decoder.
func decodeStored(value []byte, from func(stackitem.Item) error) error {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return fmt.Errorf("deserialize stack item: %w", err)
	}

	return from(item)
}
