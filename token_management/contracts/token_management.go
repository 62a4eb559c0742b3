package contracts

type ITokenEstimator interface {
	EstimateTokens(content string) int
	ExceedsThreshold(tokenCount int) bool
	DisplayTokens(source string, tokenCount int)
}
