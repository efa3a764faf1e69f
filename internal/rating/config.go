package rating

// Stored ratings are only comparable while these values stay the same.
// Bump Version whenever one of them changes and reprocess the full history.
const (
	Version = "weng-lin-v1"

	InitialMu    = 1000.0
	InitialSigma = 333.33333

	// per-game performance noise, half of the initial uncertainty
	DefaultBeta = InitialSigma / 2

	// lower bound for the multiplicative variance shrink of a single update
	DefaultKappa = 0.0001

	DefaultSigmaFloor = 1.0
)

type Config struct {
	Version      string
	InitialMu    float64
	InitialSigma float64
	Beta         float64
	Kappa        float64
	SigmaFloor   float64
}

func DefaultConfig() Config {
	return Config{
		Version:      Version,
		InitialMu:    InitialMu,
		InitialSigma: InitialSigma,
		Beta:         DefaultBeta,
		Kappa:        DefaultKappa,
		SigmaFloor:   DefaultSigmaFloor,
	}
}

// Initial is the rating of a player that has never been processed.
func (c Config) Initial() Rating {
	return Rating{Mu: c.InitialMu, Sigma: c.InitialSigma}
}
