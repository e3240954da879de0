package extract

import (
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
)

// CommonFields are recovered for every document type.
type CommonFields struct {
	InsurerName *string
	State       *string
	Location    *string
}

// PolicyFields holds the fields extracted from policy documents. Every field
// is independently optional; nil means no pattern matched, which is distinct
// from a matched-but-empty value.
type PolicyFields struct {
	CommonFields
	PolicyNumber   *string
	InsuredName    *string
	EffectiveDate  *string
	ExpirationDate *string
	PremiumAmount  *string

	// Repeating structures accumulate in document order. Only back-to-back
	// duplicates of the same capture are collapsed.
	CoverageLimits []string
	Exclusions     []string
	Endorsements   []string
}

// ClaimFields holds the fields extracted from claim documents.
type ClaimFields struct {
	CommonFields
	ClaimNumber  *string
	PolicyNumber *string
	DateOfLoss   *string
	ClaimantName *string
	AdjusterName *string
	ClaimAmount  *string
	ClaimStatus  *string
}

// FieldSet is the result of one extraction pass. Exactly one of Policy or
// Claim is set, matching DocumentType.
type FieldSet struct {
	DocumentType document.Type
	Policy       *PolicyFields
	Claim        *ClaimFields
}

// Identifiers returns the identifying numbers present in the set, keyed by
// their persisted field names.
func (f *FieldSet) Identifiers() map[string]string {
	ids := make(map[string]string)
	if f == nil {
		return ids
	}
	if f.Policy != nil && f.Policy.PolicyNumber != nil {
		ids["policy_number"] = *f.Policy.PolicyNumber
	}
	if f.Claim != nil {
		if f.Claim.ClaimNumber != nil {
			ids["claim_number"] = *f.Claim.ClaimNumber
		}
		if f.Claim.PolicyNumber != nil {
			ids["policy_number"] = *f.Claim.PolicyNumber
		}
	}
	return ids
}

// Payload flattens the present fields into the forward-compatible citation
// payload mapping. Absent fields are omitted entirely.
func (f *FieldSet) Payload() map[string]any {
	out := make(map[string]any)
	if f == nil {
		return out
	}
	put := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	if f.Policy != nil {
		p := f.Policy
		put("policy_number", p.PolicyNumber)
		put("insured_name", p.InsuredName)
		put("effective_date", p.EffectiveDate)
		put("expiration_date", p.ExpirationDate)
		put("premium_amount", p.PremiumAmount)
		put("insurer_name", p.InsurerName)
		put("state", p.State)
		put("location", p.Location)
		if len(p.CoverageLimits) > 0 {
			out["coverage_limits"] = p.CoverageLimits
		}
		if len(p.Exclusions) > 0 {
			out["exclusions"] = p.Exclusions
		}
		if len(p.Endorsements) > 0 {
			out["endorsements"] = p.Endorsements
		}
	}
	if f.Claim != nil {
		c := f.Claim
		put("claim_number", c.ClaimNumber)
		put("policy_number", c.PolicyNumber)
		put("date_of_loss", c.DateOfLoss)
		put("claimant_name", c.ClaimantName)
		put("adjuster_name", c.AdjusterName)
		put("claim_amount", c.ClaimAmount)
		put("claim_status", c.ClaimStatus)
		put("insurer_name", c.InsurerName)
		put("state", c.State)
		put("location", c.Location)
	}
	return out
}

// Overlay merges two field sets of the same document type, giving values in
// overlay precedence over base. Repeating structures are taken from whichever
// set has them, overlay first.
func Overlay(base, overlay *FieldSet) *FieldSet {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	out := &FieldSet{DocumentType: base.DocumentType}
	pick := func(b, o *string) *string {
		if o != nil {
			return o
		}
		return b
	}
	pickList := func(b, o []string) []string {
		if len(o) > 0 {
			return o
		}
		return b
	}
	if base.Policy != nil || overlay.Policy != nil {
		b, o := base.Policy, overlay.Policy
		if b == nil {
			b = &PolicyFields{}
		}
		if o == nil {
			o = &PolicyFields{}
		}
		out.Policy = &PolicyFields{
			CommonFields: CommonFields{
				InsurerName: pick(b.InsurerName, o.InsurerName),
				State:       pick(b.State, o.State),
				Location:    pick(b.Location, o.Location),
			},
			PolicyNumber:   pick(b.PolicyNumber, o.PolicyNumber),
			InsuredName:    pick(b.InsuredName, o.InsuredName),
			EffectiveDate:  pick(b.EffectiveDate, o.EffectiveDate),
			ExpirationDate: pick(b.ExpirationDate, o.ExpirationDate),
			PremiumAmount:  pick(b.PremiumAmount, o.PremiumAmount),
			CoverageLimits: pickList(b.CoverageLimits, o.CoverageLimits),
			Exclusions:     pickList(b.Exclusions, o.Exclusions),
			Endorsements:   pickList(b.Endorsements, o.Endorsements),
		}
	}
	if base.Claim != nil || overlay.Claim != nil {
		b, o := base.Claim, overlay.Claim
		if b == nil {
			b = &ClaimFields{}
		}
		if o == nil {
			o = &ClaimFields{}
		}
		out.Claim = &ClaimFields{
			CommonFields: CommonFields{
				InsurerName: pick(b.InsurerName, o.InsurerName),
				State:       pick(b.State, o.State),
				Location:    pick(b.Location, o.Location),
			},
			ClaimNumber:  pick(b.ClaimNumber, o.ClaimNumber),
			PolicyNumber: pick(b.PolicyNumber, o.PolicyNumber),
			DateOfLoss:   pick(b.DateOfLoss, o.DateOfLoss),
			ClaimantName: pick(b.ClaimantName, o.ClaimantName),
			AdjusterName: pick(b.AdjusterName, o.AdjusterName),
			ClaimAmount:  pick(b.ClaimAmount, o.ClaimAmount),
			ClaimStatus:  pick(b.ClaimStatus, o.ClaimStatus),
		}
	}
	return out
}
