package xapay

// Canonical authorization messages. These are the exact byte sequences a
// payer signs; changing any component invalidates prior signatures.

// messageSeparator joins the components of an allowance message.
const messageSeparator = ':'

// AllowanceMessage builds the canonical allowance authorization message:
// payer address, operator address, and the cap literal byte-for-byte as it
// appears in the payload, joined by ':'. Binding all three means a signature
// is valid only for this (payer, operator, cap) triple.
func AllowanceMessage(payerAddress, operatorAddress, capLiteral string) []byte {
	msg := make([]byte, 0, len(payerAddress)+len(operatorAddress)+len(capLiteral)+2)
	msg = append(msg, payerAddress...)
	msg = append(msg, messageSeparator)
	msg = append(msg, operatorAddress...)
	msg = append(msg, messageSeparator)
	msg = append(msg, capLiteral...)
	return msg
}

// NonceMessage builds the direct-payment authorization message: the raw
// 16-byte nonce itself.
func NonceMessage(nonce Nonce) []byte {
	msg := make([]byte, NonceLen)
	copy(msg, nonce[:])
	return msg
}
