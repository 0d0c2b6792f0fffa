package config

import (
	"context"
	"testing"
)

func TestEnvVarProviderGetParametersBatch(t *testing.T) {
	t.Setenv("ENV_PROVIDER_TEST_KEY", "value-1")

	provider := NewEnvVarProvider()
	got, err := provider.GetParametersBatch(context.Background(),
		[]string{"ENV_PROVIDER_TEST_KEY", "ENV_PROVIDER_MISSING_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["ENV_PROVIDER_TEST_KEY"] != "value-1" {
		t.Errorf("got %q, want value-1", got["ENV_PROVIDER_TEST_KEY"])
	}
	if _, ok := got["ENV_PROVIDER_MISSING_KEY"]; ok {
		t.Error("missing key should be omitted from the result")
	}
}
