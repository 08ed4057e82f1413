package invariant

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// ProgramAuthorityAddress derives the program authority PDA, the signer the
// on-chain program uses to move tokens out of its own reserve accounts.
func ProgramAuthorityAddress(programID solana.PublicKey) solana.PublicKey {
	addr, _, _ := solana.FindProgramAddress([][]byte{[]byte(ProgramAuthoritySeed)}, programID)
	return addr
}

// StateAddress derives the protocol's singleton state account PDA.
func StateAddress(programID solana.PublicKey) solana.PublicKey {
	addr, _, _ := solana.FindProgramAddress([][]byte{[]byte(StateSeed)}, programID)
	return addr
}

// TickAddress derives the PDA for the tick account at index i within pool P.
func TickAddress(programID, pool solana.PublicKey, i int32) solana.PublicKey {
	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, uint32(i))
	addr, _, _ := solana.FindProgramAddress(
		[][]byte{[]byte(TickSeed), pool.Bytes(), idx},
		programID,
	)
	return addr
}

// TickAddresses derives the tick PDAs for a batch of tick indices in order.
func TickAddresses(programID, pool solana.PublicKey, indexes []int32) []solana.PublicKey {
	out := make([]solana.PublicKey, len(indexes))
	for i, idx := range indexes {
		out[i] = TickAddress(programID, pool, idx)
	}
	return out
}
