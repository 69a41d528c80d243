package subscription

import "encoding/json"

// Feature names the gateable capabilities.
type Feature string

const (
	FeatureMaxTransactions   Feature = "maxTransactions"
	FeatureCustomCategories  Feature = "customCategories"
	FeatureAdvancedReports   Feature = "advancedReports"
	FeatureLoanManagement    Feature = "loanManagement"
	FeatureBusinessTracking  Feature = "businessTracking"
	FeatureMultiCurrency     Feature = "multiCurrency"
	FeatureDataExport        Feature = "dataExport"
	FeatureCloudSync         Feature = "cloudSync"
	FeatureAIInsights        Feature = "aiInsights"
	FeatureReceiptScanning   Feature = "receiptScanning"
	FeatureSmartBudgets      Feature = "smartBudgets"
	FeatureGoalTracking      Feature = "goalTracking"
	FeatureTeamCollaboration Feature = "teamCollaboration"
	FeaturePrioritySupport   Feature = "prioritySupport"
)

// UnlimitedTransactions marks a plan without a transaction cap.
const UnlimitedTransactions = -1

var allFeatures = []Feature{
	FeatureCustomCategories,
	FeatureAdvancedReports,
	FeatureLoanManagement,
	FeatureBusinessTracking,
	FeatureMultiCurrency,
	FeatureDataExport,
	FeatureCloudSync,
	FeatureAIInsights,
	FeatureReceiptScanning,
	FeatureSmartBudgets,
	FeatureGoalTracking,
	FeatureTeamCollaboration,
	FeaturePrioritySupport,
}

// FeatureSet is the capabilities a plan unlocks.
type FeatureSet struct {
	MaxTransactions int
	flags           map[Feature]bool
}

// Has reports whether the boolean feature is enabled in this set.
func (s FeatureSet) Has(f Feature) bool {
	return s.flags[f]
}

// MarshalJSON renders the set as a flat object of feature flags plus
// the transaction cap.
func (s FeatureSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(allFeatures)+1)
	out[string(FeatureMaxTransactions)] = s.MaxTransactions
	for _, f := range allFeatures {
		out[string(f)] = s.flags[f]
	}
	return json.Marshal(out)
}

var freeFeatures = FeatureSet{
	MaxTransactions: 50,
	flags:           map[Feature]bool{},
}

var premiumFeatures = FeatureSet{
	MaxTransactions: UnlimitedTransactions,
	flags: map[Feature]bool{
		FeatureCustomCategories:  true,
		FeatureAdvancedReports:   true,
		FeatureLoanManagement:    true,
		FeatureBusinessTracking:  true,
		FeatureMultiCurrency:     true,
		FeatureDataExport:        true,
		FeatureCloudSync:         true,
		FeatureAIInsights:        true,
		FeatureReceiptScanning:   true,
		FeatureSmartBudgets:      true,
		FeatureGoalTracking:      true,
		FeatureTeamCollaboration: true,
		FeaturePrioritySupport:   true,
	},
}
