package config

import "context"

// SecretProvider abstracts the retrieval of secrets to support both AWS SSM
// Parameter Store (deployed environments) and plain environment variables
// (local development).
type SecretProvider interface {
	// GetParametersBatch retrieves multiple secret values. The keys slice
	// contains the SSM parameter paths (or equivalent identifiers) to
	// resolve. Returns a map of key -> plaintext value for all successfully
	// resolved parameters.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
