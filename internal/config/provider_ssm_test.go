package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// mockSSMClient serves parameters from a map and records batch sizes.
type mockSSMClient struct {
	params     map[string]string
	batchSizes []int
	returnErr  error
}

func (m *mockSSMClient) GetParameters(_ context.Context, input *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	m.batchSizes = append(m.batchSizes, len(input.Names))
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	if input.WithDecryption == nil || !*input.WithDecryption {
		return nil, errors.New("decryption not requested")
	}

	output := &ssm.GetParametersOutput{}
	for _, name := range input.Names {
		if value, ok := m.params[name]; ok {
			output.Parameters = append(output.Parameters, ssmtypes.Parameter{
				Name:  aws.String(name),
				Value: aws.String(value),
			})
		} else {
			output.InvalidParameters = append(output.InvalidParameters, name)
		}
	}
	return output, nil
}

func TestSSMProviderGetParametersBatch(t *testing.T) {
	client := &mockSSMClient{params: map[string]string{
		"/dev/prison-api/token":    "token-value",
		"/dev/probation-api/token": "other-value",
	}}
	provider := newSSMProviderWithClient("eu-west-2", client)

	got, err := provider.GetParametersBatch(context.Background(),
		[]string{"/dev/prison-api/token", "/dev/probation-api/token"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["/dev/prison-api/token"] != "token-value" {
		t.Errorf("token: got %q", got["/dev/prison-api/token"])
	}
	if len(got) != 2 {
		t.Errorf("expected 2 values, got %d", len(got))
	}
}

func TestSSMProviderBatchesOfTen(t *testing.T) {
	params := make(map[string]string)
	keys := make([]string, 0, 23)
	for i := 0; i < 23; i++ {
		key := fmt.Sprintf("/dev/param-%d", i)
		params[key] = "v"
		keys = append(keys, key)
	}
	client := &mockSSMClient{params: params}
	provider := newSSMProviderWithClient("eu-west-2", client)

	got, err := provider.GetParametersBatch(context.Background(), keys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 23 {
		t.Errorf("expected 23 values, got %d", len(got))
	}
	want := []int{10, 10, 3}
	if len(client.batchSizes) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(client.batchSizes))
	}
	for i, size := range want {
		if client.batchSizes[i] != size {
			t.Errorf("batch %d: got %d, want %d", i, client.batchSizes[i], size)
		}
	}
}

func TestSSMProviderInvalidParameterFails(t *testing.T) {
	client := &mockSSMClient{params: map[string]string{}}
	provider := newSSMProviderWithClient("eu-west-2", client)

	_, err := provider.GetParametersBatch(context.Background(), []string{"/dev/missing"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "/dev/missing") {
		t.Errorf("error should name the missing parameter: %v", err)
	}
}

func TestSSMProviderEmptyKeys(t *testing.T) {
	provider := newSSMProviderWithClient("eu-west-2", &mockSSMClient{})

	got, err := provider.GetParametersBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestSSMProviderCancelledContext(t *testing.T) {
	provider := newSSMProviderWithClient("eu-west-2", &mockSSMClient{params: map[string]string{"/k": "v"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.GetParametersBatch(ctx, []string{"/k"}); err == nil {
		t.Error("expected error for cancelled context, got nil")
	}
}
