package domain

type GrantRequest struct {
	Recipient string
	SessionID string
	Answer    int
	// ClientHint é a primeira entrada do X-Forwarded-For (pode vir vazia).
	ClientHint string
}

type Grant struct {
	Signature Signature
	Recipient Address
	Amount    uint64
}
