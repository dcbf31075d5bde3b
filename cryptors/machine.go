package cryptors

// CypherBlock is the data moved through an encrypt or decrypt machine.  A
// Length of zero (or less) shuts the machine down after it has been passed on.
type CypherBlock struct {
	Length      int8
	CypherBlock Block
}

// Crypter transforms a block in place.  Apply_F encrypts, Apply_G decrypts.
type Crypter interface {
	Apply_F(*Block) *Block
	Apply_G(*Block) *Block
}

// Encrypt applies ecm's encryption to blk in place and returns blk.
func Encrypt(ecm Crypter, blk *Block) *Block {
	return ecm.Apply_F(blk)
}

// Decrypt applies ecm's decryption to blk in place and returns blk.
func Decrypt(ecm Crypter, blk *Block) *Block {
	return ecm.Apply_G(blk)
}

func EncryptMachine(ecm Crypter, left chan CypherBlock) chan CypherBlock {
	right := make(chan CypherBlock)
	go func(ecm Crypter, left chan CypherBlock, right chan CypherBlock) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			Encrypt(ecm, &inp.CypherBlock)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

func DecryptMachine(ecm Crypter, left chan CypherBlock) chan CypherBlock {
	right := make(chan CypherBlock)
	go func(ecm Crypter, left chan CypherBlock, right chan CypherBlock) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			Decrypt(ecm, &inp.CypherBlock)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

// CreateEncryptMachine chains the crypters, first to last, into a pipeline.
// Blocks sent on left come out of right encrypted by every crypter in turn.
func CreateEncryptMachine(ecms ...Crypter) (left chan CypherBlock, right chan CypherBlock) {
	if len(ecms) == 0 {
		panic("you must give at least one encryption device!")
	}

	left = make(chan CypherBlock)
	right = EncryptMachine(ecms[0], left)

	for idx := 1; idx < len(ecms); idx++ {
		right = EncryptMachine(ecms[idx], right)
	}

	return
}

// CreateDecryptMachine is the inverse of CreateEncryptMachine: the crypters
// are applied last to first.
func CreateDecryptMachine(ecms ...Crypter) (left chan CypherBlock, right chan CypherBlock) {
	if len(ecms) == 0 {
		panic("you must give at least one decryption device!")
	}

	idx := len(ecms) - 1
	left = make(chan CypherBlock)
	right = DecryptMachine(ecms[idx], left)

	for idx--; idx >= 0; idx-- {
		right = DecryptMachine(ecms[idx], right)
	}

	return
}
