package domain

import "strings"

// StageKind identifies the module that owns a workflow stage. It is the
// closed, typed counterpart of the free-text stage names stored in the log.
type StageKind string

const (
	StageKindWorkOrder               StageKind = "work_order"
	StageKindSalesLead               StageKind = "sales_lead"
	StageKindTechnicalRecommendation StageKind = "technical_recommendation"
	StageKindRFQ                     StageKind = "rfq"
	StageKindAccount                 StageKind = "account"
	StageKindQuotation               StageKind = "quotation"
)

// Canonical stage names as they appear in the stage event log.
const (
	StageNameWorkOrder               = "Work Order"
	StageNameSalesLead               = "Sales Lead"
	StageNameTechnicalRecommendation = "Technical Recommendation"
	StageNameRFQ                     = "RFQ"
	StageNameAccount                 = "NAEF"
	StageNameQuotation               = "Quotations"
)

// StageName returns the canonical log name for the kind.
func (k StageKind) StageName() string {
	switch k {
	case StageKindSalesLead:
		return StageNameSalesLead
	case StageKindTechnicalRecommendation:
		return StageNameTechnicalRecommendation
	case StageKindRFQ:
		return StageNameRFQ
	case StageKindAccount:
		return StageNameAccount
	case StageKindQuotation:
		return StageNameQuotation
	default:
		return StageNameWorkOrder
	}
}

// KindForStageName maps a canonical log stage name back to its owning module.
// Unrecognized names fall back to the work order module, mirroring
// ParseStageKind.
func KindForStageName(name string) StageKind {
	switch name {
	case StageNameSalesLead:
		return StageKindSalesLead
	case StageNameTechnicalRecommendation:
		return StageKindTechnicalRecommendation
	case StageNameRFQ:
		return StageKindRFQ
	case StageNameAccount:
		return StageKindAccount
	case StageNameQuotation:
		return StageKindQuotation
	default:
		return StageKindWorkOrder
	}
}

// stageNameRules is the priority-ordered substring table used to route
// free-text stage names typed by callers ("SL", "Technical Reco", "Quote").
// First match wins; the order is load-bearing — "sl" must be tried before
// "wo" and "tr" so abbreviations land in the right module.
var stageNameRules = []struct {
	substr string
	kind   StageKind
}{
	{"sales lead", StageKindSalesLead},
	{"sl", StageKindSalesLead},
	{"workorder", StageKindWorkOrder},
	{"wo", StageKindWorkOrder},
	{"technical reco", StageKindTechnicalRecommendation},
	{"tr", StageKindTechnicalRecommendation},
	{"rfq", StageKindRFQ},
	{"quotation", StageKindQuotation},
	{"quote", StageKindQuotation},
}

// ParseStageKind resolves free-text stage input to a module by
// case-insensitive substring containment against stageNameRules.
// Anything unmatched falls back to the work order module, which is the
// legacy behavior clients depend on.
func ParseStageKind(input string) StageKind {
	lower := strings.ToLower(input)
	for _, rule := range stageNameRules {
		if strings.Contains(lower, rule.substr) {
			return rule.kind
		}
	}
	return StageKindWorkOrder
}

// StageKindForEvent resolves the stage name on an incoming stage event.
// Unlike ParseStageKind it also recognizes the NAEF/account stage, which the
// assigned-work dispatcher deliberately omits from its routing table.
func StageKindForEvent(input string) StageKind {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "naef") || strings.Contains(lower, "account") {
		return StageKindAccount
	}
	return ParseStageKind(input)
}

// CodePrefixes per module, used by the sequence generator.
const (
	CodePrefixWorkOrder               = "WO"
	CodePrefixSalesLead               = "FSL"
	CodePrefixTechnicalRecommendation = "TR"
	CodePrefixRFQ                     = "RFQ"
	CodePrefixAccount                 = "NAEF"
	CodePrefixQuotation               = "QT"
)

// CodePrefix returns the human-readable code prefix for the kind.
func (k StageKind) CodePrefix() string {
	switch k {
	case StageKindSalesLead:
		return CodePrefixSalesLead
	case StageKindTechnicalRecommendation:
		return CodePrefixTechnicalRecommendation
	case StageKindRFQ:
		return CodePrefixRFQ
	case StageKindAccount:
		return CodePrefixAccount
	case StageKindQuotation:
		return CodePrefixQuotation
	default:
		return CodePrefixWorkOrder
	}
}
