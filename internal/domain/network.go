package domain

// NetworkConfig is the static per-network record the engine operates
// against. Never mutated after construction.
type NetworkConfig struct {
	NetworkName  string `json:"networkName" yaml:"networkName"`
	ChainID      int64  `json:"chainId" yaml:"chainId"`
	TokenAddress string `json:"tokenAddress" yaml:"tokenAddress"`
	TokenSymbol  string `json:"tokenSymbol" yaml:"tokenSymbol"`
	Decimals     int    `json:"decimals" yaml:"decimals"`
	ExplorerURL  string `json:"explorerUrl" yaml:"explorerUrl"`
	RPCURL       string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
}
