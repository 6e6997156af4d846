package chia

type rpcStatus struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

type blockchainStateResponse struct {
	rpcStatus
	BlockchainState *blockchainState `json:"blockchain_state"`
}

type blockchainState struct {
	Peak *struct {
		Height uint64 `json:"height"`
	} `json:"peak"`
	Sync *struct {
		SyncMode bool `json:"sync_mode"`
		Synced   bool `json:"synced"`
	} `json:"sync"`
	Network string `json:"network"`
}

func (b *blockchainState) GetHeight() uint64 {
	if b.Peak == nil {
		return 0
	}
	return b.Peak.Height
}

func (b *blockchainState) GetNetwork() string {
	return b.Network
}

func (b *blockchainState) IsSyncing() bool {
	return b.Sync != nil && b.Sync.SyncMode
}

type mempoolResponse struct {
	rpcStatus
	TxIDs []string `json:"tx_ids"`
}

type transactionResponse struct {
	rpcStatus
	Transaction *transactionRecord `json:"transaction"`
}

type transactionRecord struct {
	Name              string `json:"name"`
	Confirmed         bool   `json:"confirmed"`
	ConfirmedAtHeight *uint64 `json:"confirmed_at_height"`
	Amount            uint64 `json:"amount"`
	FeeAmount         uint64 `json:"fee_amount"`
	ToAddress         string `json:"to_address"`
}

func (t *transactionRecord) GetName() string {
	return t.Name
}

func (t *transactionRecord) IsConfirmed() bool {
	return t.Confirmed
}

// GetConfirmedAtHeight treats a zero height as missing, the wallet reports
// 0 for transactions not included yet.
func (t *transactionRecord) GetConfirmedAtHeight() (uint64, bool) {
	if t.ConfirmedAtHeight == nil || *t.ConfirmedAtHeight == 0 {
		return 0, false
	}
	return *t.ConfirmedAtHeight, true
}

func (t *transactionRecord) GetAmount() uint64 {
	return t.Amount
}

func (t *transactionRecord) GetFeeAmount() uint64 {
	return t.FeeAmount
}

func (t *transactionRecord) GetToAddress() string {
	return t.ToAddress
}
