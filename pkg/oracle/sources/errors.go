package sources

import "errors"

var (
	// ErrUnknownSourceType indicates a source tag outside the known families.
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrNoPriceFeedFound indicates that no feed is registered for the asset or kind.
	ErrNoPriceFeedFound = errors.New("no price feed found")
	// ErrZeroExchangeRate indicates a non-positive price reported by a feed.
	ErrZeroExchangeRate = errors.New("zero exchange rate")
	// ErrIncorrectChainlinkRoute indicates a Chainlink hop where neither side is the reference currency.
	ErrIncorrectChainlinkRoute = errors.New("incorrect chainlink route")
	// ErrIncorrectPythRoute indicates a Pyth hop where neither side is the reference currency.
	ErrIncorrectPythRoute = errors.New("incorrect pyth route")
	// ErrIncorrectPythPrice indicates a Pyth reading with a non-positive price or an exponent outside [-255, 0].
	ErrIncorrectPythPrice = errors.New("incorrect pyth price")
	// ErrNoTokenSymbolFound indicates that no Orally symbol is registered for the pair.
	ErrNoTokenSymbolFound = errors.New("no token symbol found")
	// ErrIncorrectOrallyPrice indicates an Orally reading with a non-positive price.
	ErrIncorrectOrallyPrice = errors.New("incorrect orally price")
	// ErrNoTokenPairFound indicates that no Stork pair is registered for the pair.
	ErrNoTokenPairFound = errors.New("no token pair found")
	// ErrInvalidStorkSignature indicates a Stork reading whose signature does not recover to the configured publisher.
	ErrInvalidStorkSignature = errors.New("invalid stork signature")
	// ErrPublishTimeExceedsThresholdTime indicates a reading older than the staleness tolerance.
	ErrPublishTimeExceedsThresholdTime = errors.New("publish time exceeds threshold time")
	// ErrTokenPairIsNotTrusted indicates a pool-derived hop over a pair absent from the allow-list.
	ErrTokenPairIsNotTrusted = errors.New("token pair is not trusted")
	// ErrIncorrectCurveLPRoute indicates a Curve LP hop where neither side is the reference currency.
	ErrIncorrectCurveLPRoute = errors.New("incorrect curve lp route")
	// ErrOracleDataAndTokensLengthMismatch indicates sub-route count differing from the underlying asset count.
	ErrOracleDataAndTokensLengthMismatch = errors.New("oracle data and tokens length mismatch")
	// ErrIncorrectOracleData indicates malformed nested oracle data in a composite-token payload.
	ErrIncorrectOracleData = errors.New("incorrect oracle data")
	// ErrNoUnderlyingTokenFound indicates that no underlying asset is mapped for the vault share.
	ErrNoUnderlyingTokenFound = errors.New("no underlying token found")
	// ErrIncorrectEIP4626Route indicates a vault-share hop where neither side is the reference currency.
	ErrIncorrectEIP4626Route = errors.New("incorrect eip4626 route")
	// ErrAddressIsNotUniswapV2LPToken indicates a token outside the registered LP membership set.
	ErrAddressIsNotUniswapV2LPToken = errors.New("address is not uniswapv2 lp token")
	// ErrIncorrectUniswapV2LPRoute indicates an LP hop where neither side is the reference currency.
	ErrIncorrectUniswapV2LPRoute = errors.New("incorrect uniswapv2 lp route")
	// ErrInvalidPayload indicates a payload that does not decode to the family's expected shape.
	ErrInvalidPayload = errors.New("invalid source payload")
)
