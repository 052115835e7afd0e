package shared

// MutationKind classifies what produced a balance change
type MutationKind string

const (
	MutationKindEmission   MutationKind = "EMISSION"
	MutationKindDonation   MutationKind = "DONATION"
	MutationKindPrePayment MutationKind = "PREPAYMENT"
	MutationKindEtherFeed  MutationKind = "ETHER_FEED"
	MutationKindSettlement MutationKind = "SETTLEMENT"
)

func (k MutationKind) Valid() bool {
	switch k {
	case MutationKindEmission, MutationKindDonation, MutationKindPrePayment,
		MutationKindEtherFeed, MutationKindSettlement:
		return true
	}
	return false
}

// MutationStatus defines mutation processing states
type MutationStatus string

const (
	MutationStatusProcessing MutationStatus = "PROCESSING"
	MutationStatusCompleted  MutationStatus = "COMPLETED"
	MutationStatusFailed     MutationStatus = "FAILED"
)

// FailureReason defines mutation failure categories
type FailureReason string

const (
	FailureReasonAccountNotFound   FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonInsufficientFunds FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonInvalidAmount     FailureReason = "INVALID_AMOUNT"
	FailureReasonInvalidKind       FailureReason = "INVALID_KIND"
	FailureReasonWalletMismatch    FailureReason = "WALLET_MISMATCH"
	FailureReasonUnknownError      FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
