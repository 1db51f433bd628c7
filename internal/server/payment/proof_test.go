package payment

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

func TestParseProofRawJson(t *testing.T) {
	raw := `{"id":"p-1","payer":"0xbuyer","sig":"abc"}`

	proof, err := ParseProof(raw)
	require.NoError(t, err)
	assert.Equal(t, "p-1", proof.ID)
	assert.Equal(t, "0xbuyer", proof.Payer)
	assert.Equal(t, raw, proof.Payload)
}

func TestParseProofBase64(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte(`{"id":"p-2","payer":"0xbuyer"}`))

	proof, err := ParseProof(raw)
	require.NoError(t, err)
	assert.Equal(t, "p-2", proof.ID)
	assert.Equal(t, raw, proof.Payload, "original encoding must be preserved")
}

func TestParseProofInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "certainly-not-json"},
		{"missing id", `{"payer":"0xbuyer"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProof(tt.raw)
			assert.True(t, errors.Is(err, common.ErrorInvalidProof))
		})
	}
}
