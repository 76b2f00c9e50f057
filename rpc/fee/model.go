package fee

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// TaskID is a marketplace task identifier escrows are keyed by. It is a
// SHA-256 hash of the task description rendered as a base58 string in logs
// and CLI output.
type TaskID util.Uint256

// String implements [fmt.Stringer].
func (id TaskID) String() string {
	return base58.Encode(id[:])
}

// DecodeTaskID parses a base58 task ID string.
func DecodeTaskID(s string) (TaskID, error) {
	var id TaskID

	b, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("invalid base58: %w", err)
	}
	if len(b) != util.Uint256Size {
		return id, fmt.Errorf("wrong task ID length %d", len(b))
	}

	copy(id[:], b)
	return id, nil
}

// Uint256 converts the task ID to the underlying hash type used by contract
// invocations.
func (id TaskID) Uint256() util.Uint256 {
	return util.Uint256(id)
}
