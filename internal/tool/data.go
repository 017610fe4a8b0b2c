package tool

// Opportunity is one yield venue for USDC.
type Opportunity struct {
	Protocol string  `json:"protocol"`
	Pool     string  `json:"pool"`
	APY      float64 `json:"apy"`
	Risk     string  `json:"risk"` // low | medium | high
	TVL      string  `json:"tvl"`
	URL      string  `json:"url,omitempty"`
}

// ProtocolInfo describes one supported protocol.
type ProtocolInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TVL         string `json:"tvl"`
	URL         string `json:"url,omitempty"`
}

// Static catalogues. The dashboard curates these rather than indexing
// on-chain; refresh happens at release time.
var yieldCatalog = []Opportunity{
	{Protocol: "Aave", Pool: "USDC supply", APY: 3.8, Risk: "low", TVL: "$310M", URL: "https://app.aave.com"},
	{Protocol: "Compound", Pool: "cUSDCv3", APY: 4.2, Risk: "low", TVL: "$180M", URL: "https://app.compound.finance"},
	{Protocol: "Morpho", Pool: "USDC vault", APY: 6.1, Risk: "medium", TVL: "$95M", URL: "https://app.morpho.org"},
	{Protocol: "Aerodrome", Pool: "USDC/ETH LP", APY: 11.4, Risk: "high", TVL: "$42M", URL: "https://aerodrome.finance"},
	{Protocol: "Moonwell", Pool: "USDC supply", APY: 5.0, Risk: "medium", TVL: "$67M", URL: "https://moonwell.fi"},
}

var protocolCatalog = []ProtocolInfo{
	{Name: "Aave", Category: "lending", Description: "Over-collateralized lending market.", TVL: "$12B", URL: "https://aave.com"},
	{Name: "Compound", Category: "lending", Description: "Algorithmic money market.", TVL: "$2.4B", URL: "https://compound.finance"},
	{Name: "Morpho", Category: "lending", Description: "Peer-matched lending optimizer.", TVL: "$1.8B", URL: "https://morpho.org"},
	{Name: "Uniswap", Category: "dex", Description: "Automated market maker.", TVL: "$4.5B", URL: "https://uniswap.org"},
	{Name: "Aerodrome", Category: "dex", Description: "Base-native liquidity hub.", TVL: "$800M", URL: "https://aerodrome.finance"},
}
