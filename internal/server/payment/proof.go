package payment

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

// proofEnvelope is the minimal structure a payment payload must carry. The
// rest of the payload stays opaque and is forwarded to the verifier as-is.
type proofEnvelope struct {
	ID    string `json:"id"`
	Payer string `json:"payer"`
}

// ParseProof decodes a payment payload as received on the wire, either raw
// JSON or base64-encoded JSON. Only the proof identifier and payer are
// extracted; the original payload is preserved for verification.
func ParseProof(raw string) (*Proof, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty payment payload", common.ErrorInvalidProof)
	}

	data := []byte(raw)
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		data = decoded
	}

	var env proofEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed payment payload", common.ErrorInvalidProof)
	}
	if env.ID == "" {
		return nil, fmt.Errorf("%w: payment payload has no id", common.ErrorInvalidProof)
	}

	return &Proof{ID: env.ID, Payer: env.Payer, Payload: raw}, nil
}
