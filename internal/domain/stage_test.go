package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStageKind(t *testing.T) {
	tests := []struct {
		input string
		want  StageKind
	}{
		{"Sales Lead", StageKindSalesLead},
		{"sales lead draft", StageKindSalesLead},
		{"SL", StageKindSalesLead},
		{"FSL-2025-0001", StageKindSalesLead},
		{"Work Order", StageKindWorkOrder},
		{"workorder", StageKindWorkOrder},
		{"WO", StageKindWorkOrder},
		{"Technical Recommendation", StageKindTechnicalRecommendation},
		{"Technical Reco Draft", StageKindTechnicalRecommendation},
		{"TR", StageKindTechnicalRecommendation},
		{"RFQ", StageKindRFQ},
		{"rfq pending", StageKindRFQ},
		{"Quotations", StageKindQuotation},
		{"quote", StageKindQuotation},
		// unmatched input falls back to the work order module
		{"", StageKindWorkOrder},
		{"something else", StageKindWorkOrder},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStageKind(tt.input))
		})
	}
}

func TestParseStageKind_PriorityOrder(t *testing.T) {
	// "sl" is matched before "tr": an input containing both lands on the
	// sales lead module.
	assert.Equal(t, StageKindSalesLead, ParseStageKind("slow tracker"))
	// "sl" also beats a later "wo".
	assert.Equal(t, StageKindSalesLead, ParseStageKind("sl for wo"))
}

func TestStageKindForEvent(t *testing.T) {
	assert.Equal(t, StageKindAccount, StageKindForEvent("NAEF"))
	assert.Equal(t, StageKindAccount, StageKindForEvent("naef approval"))
	assert.Equal(t, StageKindAccount, StageKindForEvent("New Account Enrollment"))
	// everything else routes exactly like ParseStageKind
	assert.Equal(t, StageKindSalesLead, StageKindForEvent("Sales Lead"))
	assert.Equal(t, StageKindRFQ, StageKindForEvent("RFQ"))
	assert.Equal(t, StageKindWorkOrder, StageKindForEvent("unknown"))
}

func TestStageKindStageName(t *testing.T) {
	assert.Equal(t, "Work Order", StageKindWorkOrder.StageName())
	assert.Equal(t, "Sales Lead", StageKindSalesLead.StageName())
	assert.Equal(t, "Technical Recommendation", StageKindTechnicalRecommendation.StageName())
	assert.Equal(t, "RFQ", StageKindRFQ.StageName())
	assert.Equal(t, "NAEF", StageKindAccount.StageName())
	assert.Equal(t, "Quotations", StageKindQuotation.StageName())
}

func TestKindForStageName_RoundTrip(t *testing.T) {
	kinds := []StageKind{
		StageKindWorkOrder,
		StageKindSalesLead,
		StageKindTechnicalRecommendation,
		StageKindRFQ,
		StageKindAccount,
		StageKindQuotation,
	}
	for _, kind := range kinds {
		assert.Equal(t, kind, KindForStageName(kind.StageName()))
	}
	assert.Equal(t, StageKindWorkOrder, KindForStageName("garbage"))
}

func TestStageKindCodePrefix(t *testing.T) {
	assert.Equal(t, "WO", StageKindWorkOrder.CodePrefix())
	assert.Equal(t, "FSL", StageKindSalesLead.CodePrefix())
	assert.Equal(t, "TR", StageKindTechnicalRecommendation.CodePrefix())
	assert.Equal(t, "RFQ", StageKindRFQ.CodePrefix())
	assert.Equal(t, "NAEF", StageKindAccount.CodePrefix())
	assert.Equal(t, "QT", StageKindQuotation.CodePrefix())
}
