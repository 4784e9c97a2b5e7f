package model

import (
	"encoding/json"

	"creator-payment-ledger/internal/domain"
)

// PaymentMetadata is the kind-specific payload carried by a payment.
// Exactly one branch is set, matching Payment.Kind; it is stored as
// JSONB and decoded only by the entitlement grant branch for that kind.
type PaymentMetadata struct {
	Subscription *SubscriptionMeta `json:"subscription,omitempty"`
	PPV          *PPVMeta          `json:"ppv,omitempty"`
	Tip          *TipMeta          `json:"tip,omitempty"`
	ProPlan      *ProPlanMeta      `json:"pro_plan,omitempty"`
	Pack         *PackMeta         `json:"pack,omitempty"`
}

type SubscriptionMeta struct {
	DurationDays int `json:"duration_days"`
}

// PPVMeta covers both whole-content and per-item purchases: a nil
// MediaIndex unlocks the whole content, a set index only that item.
// MessageID marks the message-PPV variant; its unlock flag is flipped
// on grant.
type PPVMeta struct {
	ContentID  string  `json:"content_id"`
	MediaIndex *int    `json:"media_index,omitempty"`
	MessageID  *string `json:"message_id,omitempty"`
}

type TipMeta struct {
	Message   string  `json:"message,omitempty"`
	ContentID *string `json:"content_id,omitempty"` // tip left on a specific post, if any
}

type ProPlanMeta struct {
	DurationDays int `json:"duration_days"`
}

type PackMeta struct {
	PackID    string  `json:"pack_id"`
	MessageID *string `json:"message_id,omitempty"` // pack offered through a message, informational only
}

// Validate checks that exactly the branch for kind is present.
func (m PaymentMetadata) Validate(kind PaymentKind) error {
	set := 0
	if m.Subscription != nil {
		set++
	}
	if m.PPV != nil {
		set++
	}
	if m.Tip != nil {
		set++
	}
	if m.ProPlan != nil {
		set++
	}
	if m.Pack != nil {
		set++
	}
	if set != 1 {
		return domain.ErrInvalidArgument
	}
	ok := false
	switch kind {
	case PaymentKindSubscription:
		ok = m.Subscription != nil && m.Subscription.DurationDays > 0
	case PaymentKindPPV:
		ok = m.PPV != nil && m.PPV.ContentID != ""
	case PaymentKindTip:
		ok = m.Tip != nil
	case PaymentKindProPlan:
		ok = m.ProPlan != nil && m.ProPlan.DurationDays > 0
	case PaymentKindPack:
		ok = m.Pack != nil && m.Pack.PackID != ""
	}
	if !ok {
		return domain.ErrInvalidArgument
	}
	return nil
}

// Value/Scan-free JSON round trip helpers used by the postgres repo.
func (m PaymentMetadata) MarshalJSONB() ([]byte, error) { return json.Marshal(m) }

func UnmarshalMetadata(b []byte) (PaymentMetadata, error) {
	var m PaymentMetadata
	if len(b) == 0 {
		return m, nil
	}
	err := json.Unmarshal(b, &m)
	return m, err
}
