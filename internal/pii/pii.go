package pii

// Category identifies a kind of sensitive data the scrubber recognizes.
type Category string

const (
	CategorySSN           Category = "ssn"
	CategoryCreditCard    Category = "credit_card"
	CategoryPhone         Category = "phone"
	CategoryEmail         Category = "email"
	CategoryStreetAddress Category = "street_address"
	CategoryBankAccount   Category = "bank_account"
	CategoryRoutingNumber Category = "routing_number"
	CategoryDateOfBirth   Category = "date_of_birth"
	CategoryFullName      Category = "full_name"
)

// RiskLevel classifies how sensitive a scrubbed text turned out to be,
// derived from the count and severity of the categories found.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Match records a single detected span. Position is the byte offset of the
// span in the original (pre-redaction) text so callers can highlight it.
type Match struct {
	Category   Category `json:"category"`
	Value      string   `json:"value"`
	Position   int      `json:"position"`
	Confidence float64  `json:"confidence"`
}

// ScrubResult is the outcome of one Scrub call. CleanText has every detected
// span replaced by a category-specific placeholder token.
type ScrubResult struct {
	CleanText   string    `json:"clean_text"`
	FoundPII    []Match   `json:"found_pii,omitempty"`
	PIIDetected bool      `json:"pii_detected"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Contains reports whether the result includes at least one match of the
// given category.
func (r ScrubResult) Contains(c Category) bool {
	for _, m := range r.FoundPII {
		if m.Category == c {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories found, in order of first
// appearance in the text.
func (r ScrubResult) Categories() []Category {
	seen := make(map[Category]bool, len(r.FoundPII))
	var out []Category
	for _, m := range r.FoundPII {
		if seen[m.Category] {
			continue
		}
		seen[m.Category] = true
		out = append(out, m.Category)
	}
	return out
}

// severityOf ranks categories for RiskLevel derivation. Financial and
// identity numbers dominate; contact details are mid-tier; the name
// heuristic is best-effort and ranks lowest.
func severityOf(c Category) int {
	switch c {
	case CategorySSN, CategoryCreditCard, CategoryBankAccount, CategoryRoutingNumber:
		return 3
	case CategoryDateOfBirth, CategoryStreetAddress:
		return 2
	case CategoryPhone, CategoryEmail:
		return 1
	default:
		return 0
	}
}

func deriveRiskLevel(found []Match) RiskLevel {
	if len(found) == 0 {
		return RiskNone
	}
	top := 0
	for _, m := range found {
		if s := severityOf(m.Category); s > top {
			top = s
		}
	}
	switch {
	case top >= 3:
		return RiskHigh
	case top == 2 || len(found) >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}
