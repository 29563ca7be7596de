package checkout

import "fmt"

// Chain describes a supported settlement network.
type Chain struct {
	ID          int64
	Name        string
	RPCURL      string
	ExplorerURL string
	USDTAddress string
}

// Supported settlement chains. Base mainnet is the production default;
// Base Sepolia is kept for end-to-end testing against the test contract.
var chains = map[int64]Chain{
	8453: {
		ID:          8453,
		Name:        "Base",
		RPCURL:      "https://mainnet.base.org",
		ExplorerURL: "https://basescan.org",
		USDTAddress: "0xf8a8519313befc293bbe86fd40e993655cf7436b",
	},
	84532: {
		ID:          84532,
		Name:        "Base Sepolia",
		RPCURL:      "https://sepolia.base.org",
		ExplorerURL: "https://sepolia.basescan.org",
		USDTAddress: "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	},
}

// ChainByID returns the chain registry entry for the given chain id.
func ChainByID(id int64) (Chain, bool) {
	c, ok := chains[id]
	return c, ok
}

// TxURL returns the block explorer link for a transaction hash.
func (c Chain) TxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", c.ExplorerURL, txHash)
}
