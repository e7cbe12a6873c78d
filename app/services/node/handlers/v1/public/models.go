package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
)

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    *int64 `json:"amount" validate:"required,gte=0"`
}

type nodeList struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

type message struct {
	Message string `json:"message"`
}

type mineResult struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

type chainResult struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

type registerResult struct {
	Message    string `json:"message"`
	TotalNodes int    `json:"total_nodes"`
}

type replacedResult struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain"`
}

type authoritativeResult struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}

type nodesResult struct {
	Nodes      []string `json:"nodes"`
	TotalNodes int      `json:"total_nodes"`
}

type mempoolResult struct {
	Transactions []database.Tx `json:"transactions"`
	Length       int           `json:"length"`
}

type genesisResult struct {
	Date       string `json:"date"`
	Difficulty uint   `json:"difficulty"`
	ProofFloor uint64 `json:"proof_floor"`
	Hash       string `json:"hash"`
}

type txProof struct {
	Block     uint64             `json:"block"`
	BlockHash string             `json:"block_hash"`
	Tx        database.Tx        `json:"transaction"`
	TxHash    string             `json:"tx_hash"`
	Root      string             `json:"merkle_root"`
	Proof     []merkle.ProofStep `json:"proof"`
}
