package config

// Wallet provider kinds.
const (
	ProviderKeystore = "keystore" // local accounts held in the OS keychain
	ProviderRPC      = "rpc"      // external JSON-RPC wallet (Clef, dev node, bridge)
)

// Config holds all nftmint configuration.
type Config struct {
	Provider        string `json:"provider"`                 // "keystore" | "rpc"
	RPCURL          string `json:"rpc_url"`                  // chain node for reads and broadcast
	WalletRPCURL    string `json:"wallet_rpc_url,omitempty"` // only for provider "rpc"
	ContractAddress string `json:"contract_address"`
	DefaultWallet   string `json:"default_wallet,omitempty"`
	ReceiptPollMS   int    `json:"receipt_poll_ms"`

	// internal: config dir path used for Save()
	configDir string
}
