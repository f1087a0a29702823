package models

// Receipt is what a successful ledger write returns: the register
// address of the record and the transaction that carried the write.
type Receipt struct {
	Address string `json:"address"`
	TxID    string `json:"txid"`
}

// Profile describes the signature-chain session the service operates
// under.
type Profile struct {
	Genesis  string `json:"genesis"`
	Username string `json:"username"`
}
