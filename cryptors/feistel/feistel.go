// feistel
//
// Package feistel is the F42 cipher: a 42 round Feistel network over a 128
// bit block with a 128 bit key.  The package holds no state; every call
// derives its round keys from the key it is given and reads the shared,
// immutable tables.
package feistel

import (
	"errors"

	"github.com/bgallie/f42/cryptors"
	"github.com/bgallie/f42/cryptors/bitops"
	"github.com/bgallie/f42/cryptors/schedule"
	"github.com/bgallie/f42/cryptors/tables"
)

var errNoTables = errors.New("feistel: nil cipher tables")

// EncryptBlock encrypts one block under key.
func EncryptBlock(plaintext cryptors.Block, key cryptors.Key, t *tables.Tables) cryptors.Block {
	keys := schedule.Derive(key, t)
	return network(plaintext, &keys, false, t)
}

// DecryptBlock reverses EncryptBlock by applying the round keys last to first.
func DecryptBlock(ciphertext cryptors.Block, key cryptors.Key, t *tables.Tables) cryptors.Block {
	keys := schedule.Derive(key, t)
	return network(ciphertext, &keys, true, t)
}

// network runs the 42 rounds.  The halves are emitted as right || left and
// no swap is undone after the last round, which makes the same routine its
// own inverse once the key order is reversed.
func network(blk cryptors.Block, keys *cryptors.RoundKeys, reverse bool, t *tables.Tables) cryptors.Block {
	left, right := blk.Halves()

	for i := 0; i < cryptors.NumberOfRounds; i++ {
		k := i
		if reverse {
			k = cryptors.NumberOfRounds - 1 - i
		}

		f := F(right, keys[k], t)
		var next cryptors.Half
		bitops.Xor(next[:], f[:], left[:])
		left, right = right, next
	}

	return cryptors.Join(right, left)
}

// Encrypt encrypts a 16 byte plaintext with a 16 byte key.  Inputs of any
// other length are rejected with cryptors.ErrLengthMismatch; nothing is
// padded or truncated.
func Encrypt(plaintext, key []byte, t *tables.Tables) ([]byte, error) {
	return apply(plaintext, key, t, EncryptBlock)
}

// Decrypt is the inverse of Encrypt.
func Decrypt(ciphertext, key []byte, t *tables.Tables) ([]byte, error) {
	return apply(ciphertext, key, t, DecryptBlock)
}

func apply(in, key []byte, t *tables.Tables,
	fn func(cryptors.Block, cryptors.Key, *tables.Tables) cryptors.Block) ([]byte, error) {
	if t == nil {
		return nil, errNoTables
	}

	blk, err := cryptors.NewBlock(in)
	if err != nil {
		return nil, err
	}

	k, err := cryptors.NewKey(key)
	if err != nil {
		return nil, err
	}

	out := fn(blk, k, t)
	return out[:], nil
}

// Machine is a cryptors.Crypter that encrypts or decrypts with a fixed key.
// It keeps only the key; round keys are derived again for every block.
type Machine struct {
	key    cryptors.Key
	tables *tables.Tables
}

// New returns a Machine that encrypts and decrypts with key and t.
func New(key cryptors.Key, t *tables.Tables) *Machine {
	return &Machine{key: key, tables: t}
}

// Apply_F encrypts blk in place.
func (m *Machine) Apply_F(blk *cryptors.Block) *cryptors.Block {
	*blk = EncryptBlock(*blk, m.key, m.tables)
	return blk
}

// Apply_G decrypts blk in place.
func (m *Machine) Apply_G(blk *cryptors.Block) *cryptors.Block {
	*blk = DecryptBlock(*blk, m.key, m.tables)
	return blk
}
