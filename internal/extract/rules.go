package extract

import "regexp"

// rule is one step of an ordered pattern cascade. Rules for a field are
// tried in declaration order and the first match wins, so loose generic
// patterns must stay at the end of their table.
type rule struct {
	re    *regexp.Regexp
	group int
}

const datePat = `((?:\d{1,2}/\d{1,2}/\d{2,4})|(?:\d{4}-\d{2}-\d{2})|(?:(?i:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}))`

const amountCore = `\$\s?[\d,]+(?:\.\d{2})?(?:\s?(?i:million|M|K))?`

const amountPat = `(` + amountCore + `)`

var (
	policyNumberRules = []rule{
		{regexp.MustCompile(`(?i)policy\s*(?:number|no\.?|#)\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-]{3,24})`), 1},
		{regexp.MustCompile(`\b(POL[-\s]?[A-Z0-9][A-Z0-9\-]{2,20})\b`), 1},
		// Loose fallback: accepts any policy-number-shaped token. Known
		// precision/recall trade-off, kept deliberately.
		{regexp.MustCompile(`\b([A-Z]{2,4}-\d{3,10})\b`), 1},
	}

	claimNumberRules = []rule{
		{regexp.MustCompile(`(?i)claim\s*(?:number|no\.?|#)\s*[:\-]?\s*([A-Z0-9][A-Z0-9\-]{3,24})`), 1},
		{regexp.MustCompile(`\b(CLM[-\s]?[A-Z0-9][A-Z0-9\-]{2,20})\b`), 1},
	}

	insurerRules = []rule{
		{regexp.MustCompile(`(?i)(?:insurer|carrier|insurance\s+company|underwritten\s+by)\s*[:\-]?\s*([A-Z][A-Za-z&.,'\- ]{2,60}?)(?:\n|,\s*(?:NAIC|policy)|$)`), 1},
		{regexp.MustCompile(`\b([A-Z][A-Za-z&' ]{2,40}\s(?:Insurance|Mutual|Assurance)(?:\s(?:Company|Group|Co\.?))?)\b`), 1},
	}

	stateRules = []rule{
		{regexp.MustCompile(`(?i)\bstate\s*(?:of\s+issue|of\s+loss)?\s*[:\-]\s*([A-Z]{2})\b`), 1},
		{regexp.MustCompile(`,\s*([A-Z]{2})\s+\d{5}(?:-\d{4})?\b`), 1},
	}

	locationRules = []rule{
		{regexp.MustCompile(`(?i)(?:location|property\s+address|loss\s+location|insured\s+location)\s*[:\-]\s*(.+)`), 1},
	}

	insuredNameRules = []rule{
		{regexp.MustCompile(`(?i)(?:named\s+insured|insured|policyholder)\s*(?:name)?\s*[:\-]\s*(.+)`), 1},
	}

	effectiveDateRules = []rule{
		{regexp.MustCompile(`(?i)(?:effective\s+date|policy\s+period\s+from|effective)\s*[:\-]?\s*` + datePat), 1},
	}

	expirationDateRules = []rule{
		{regexp.MustCompile(`(?i)(?:expiration\s+date|expires?|policy\s+period\s+.*?(?:to|through))\s*[:\-]?\s*` + datePat), 1},
	}

	premiumRules = []rule{
		{regexp.MustCompile(`(?i)(?:total\s+)?premium\s*(?:amount)?\s*[:\-]?\s*` + amountPat), 1},
	}

	dateOfLossRules = []rule{
		{regexp.MustCompile(`(?i)date\s+of\s+loss\s*[:\-]?\s*` + datePat), 1},
		{regexp.MustCompile(`(?i)loss\s+date\s*[:\-]?\s*` + datePat), 1},
	}

	claimantRules = []rule{
		{regexp.MustCompile(`(?i)claimant\s*(?:name)?\s*[:\-]\s*(.+)`), 1},
	}

	adjusterRules = []rule{
		{regexp.MustCompile(`(?i)adjuster\s*(?:name)?\s*[:\-]\s*(.+)`), 1},
	}

	claimAmountRules = []rule{
		{regexp.MustCompile(`(?i)(?:claim(?:ed)?\s+amount|amount\s+claimed|reserve)\s*[:\-]?\s*` + amountPat), 1},
	}

	claimStatusRules = []rule{
		{regexp.MustCompile(`(?i)(?:claim\s+)?status\s*[:\-]\s*((?i:open|closed|pending|denied|paid|under\s+review))`), 1},
	}

	coverageLimitRules = []rule{
		{regexp.MustCompile(`(?i)(?:coverage|limit\s+of\s+liability|limits?)\s*[A-Z]?\s*[:\-]\s*` + amountPat), 1},
		{regexp.MustCompile(`(?i)((?:each\s+occurrence|aggregate|per\s+person|per\s+accident)\s*[:\-]?\s*` + amountCore + `)`), 1},
	}

	exclusionRules = []rule{
		{regexp.MustCompile(`(?im)^\s*(?:[-•*]|\d+[.)])\s*(?:exclusion\s*[:\-]\s*)?([^\n]*(?i:exclud|not\s+covered|does\s+not\s+apply)[^\n]*)`), 1},
		{regexp.MustCompile(`(?i)exclusion\s*[:\-]\s*([^\n]+)`), 1},
	}

	endorsementRules = []rule{
		{regexp.MustCompile(`(?i)endorsement\s*(?:number|no\.?|#)?\s*[:\-]?\s*([A-Z0-9][A-Z0-9\- ]{1,40})`), 1},
	}
)
