package extract

import (
	"regexp"
	"strings"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
)

var wsRe = regexp.MustCompile(`\s+`)

func clean(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// firstMatch walks a cascade in declaration order and returns the first
// capture, cleaned. No match yields nil, never a placeholder.
func firstMatch(rules []rule, content string) *string {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(content)
		if m == nil || r.group >= len(m) {
			continue
		}
		v := clean(m[r.group])
		if v == "" {
			continue
		}
		return &v
	}
	return nil
}

// allMatches accumulates every capture of every rule in document order.
// Duplicates are collapsed only when the same capture text recurs
// back-to-back.
func allMatches(rules []rule, content string) []string {
	var out []string
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(content, -1) {
			if r.group >= len(m) {
				continue
			}
			v := clean(m[r.group])
			if v == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1] == v {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

// Extract applies the rule-set selected by docType to content. Each field is
// independently optional; partial extraction is expected and valid. The
// result is deterministic and re-running on the same content yields the same
// field set.
func Extract(content string, docType document.Type) *FieldSet {
	fs := &FieldSet{DocumentType: docType}
	common := CommonFields{
		InsurerName: firstMatch(insurerRules, content),
		State:       firstMatch(stateRules, content),
		Location:    firstMatch(locationRules, content),
	}

	switch docType {
	case document.TypeClaim:
		fs.Claim = &ClaimFields{
			CommonFields: common,
			ClaimNumber:  firstMatch(claimNumberRules, content),
			PolicyNumber: firstMatch(policyNumberRules, content),
			DateOfLoss:   firstMatch(dateOfLossRules, content),
			ClaimantName: firstMatch(claimantRules, content),
			AdjusterName: firstMatch(adjusterRules, content),
			ClaimAmount:  firstMatch(claimAmountRules, content),
			ClaimStatus:  firstMatch(claimStatusRules, content),
		}
	default:
		fs.Policy = &PolicyFields{
			CommonFields:   common,
			PolicyNumber:   firstMatch(policyNumberRules, content),
			InsuredName:    firstMatch(insuredNameRules, content),
			EffectiveDate:  firstMatch(effectiveDateRules, content),
			ExpirationDate: firstMatch(expirationDateRules, content),
			PremiumAmount:  firstMatch(premiumRules, content),
			CoverageLimits: allMatches(coverageLimitRules, content),
			Exclusions:     allMatches(exclusionRules, content),
			Endorsements:   allMatches(endorsementRules, content),
		}
	}
	return fs
}

// ApplyHints fills absent fields from structured key-value hints produced by
// the document-intelligence service. Hints are an optional supplement: they
// never override a value a pattern rule already matched.
func ApplyHints(fs *FieldSet, hints map[string]string) {
	if fs == nil || len(hints) == 0 {
		return
	}
	fill := func(dst **string, keys ...string) {
		if *dst != nil {
			return
		}
		for _, k := range keys {
			if v, ok := hints[k]; ok {
				if v = clean(v); v != "" {
					*dst = &v
					return
				}
			}
		}
	}
	if fs.Policy != nil {
		p := fs.Policy
		fill(&p.PolicyNumber, "policy_number", "policyNumber")
		fill(&p.InsuredName, "insured_name", "named_insured")
		fill(&p.EffectiveDate, "effective_date")
		fill(&p.ExpirationDate, "expiration_date")
		fill(&p.PremiumAmount, "premium")
		fill(&p.InsurerName, "insurer", "carrier")
		fill(&p.State, "state")
		fill(&p.Location, "location")
	}
	if fs.Claim != nil {
		c := fs.Claim
		fill(&c.ClaimNumber, "claim_number", "claimNumber")
		fill(&c.PolicyNumber, "policy_number", "policyNumber")
		fill(&c.DateOfLoss, "date_of_loss", "loss_date")
		fill(&c.ClaimantName, "claimant")
		fill(&c.AdjusterName, "adjuster")
		fill(&c.ClaimAmount, "claim_amount")
		fill(&c.ClaimStatus, "status")
		fill(&c.InsurerName, "insurer", "carrier")
		fill(&c.State, "state")
		fill(&c.Location, "location")
	}
}

var (
	amountFlagRe   = regexp.MustCompile(amountCore)
	dateFlagRe     = regexp.MustCompile(datePat)
	coverageFlagRe = regexp.MustCompile(`(?i)\b(?:coverage|covered|limit\s+of\s+liability|insuring\s+agreement)\b`)
)

// ContentFlags are boolean signals persisted with each citation record.
type ContentFlags struct {
	ContainsAmounts  bool
	ContainsDates    bool
	ContainsCoverage bool
}

func Flags(content string) ContentFlags {
	return ContentFlags{
		ContainsAmounts:  amountFlagRe.MatchString(content),
		ContainsDates:    dateFlagRe.MatchString(content),
		ContainsCoverage: coverageFlagRe.MatchString(content),
	}
}
