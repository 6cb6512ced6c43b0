package spcode

// NetworkTag identifies which chain a SilentPaymentCode's keys belong to.
// Testnet and signet intentionally share one constant: BIP-352 leaves
// resolving "tsp" between the two to the caller's context (chain height,
// genesis hash, explicit config) rather than inventing a distinction the
// wire format can't express.
type NetworkTag int

const (
	Mainnet NetworkTag = iota
	TestnetOrSignet
	Regtest
)

func (n NetworkTag) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case TestnetOrSignet:
		return "testnet_or_signet"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// hrpForNetwork and networkForHRP implement BIP-352's HRP-to-network table.
var hrpForNetwork = map[NetworkTag]string{
	Mainnet:         "sp",
	TestnetOrSignet: "tsp",
	Regtest:         "sprt",
}

var networkForHRP = map[string]NetworkTag{
	"sp":   Mainnet,
	"tsp":  TestnetOrSignet,
	"sprt": Regtest,
}
