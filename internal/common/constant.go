package common

// PayerHeaderName carries the caller's wallet address (or a signed identity
// token) on inbound requests.
const PayerHeaderName = "X-Payer"

// PaymentHeaderName carries an opaque payment proof reference on inbound
// requests; the gate forwards it to the verifier unmodified.
const PaymentHeaderName = "X-Payment"
