package core

// Summary is the sidebar reconciliation for one year.
type Summary struct {
	Year            int   `json:"year"`
	PersonalBalance int64 `json:"personalBalance"`
	FamilyBalance   int64 `json:"familyBalance"`
	NetAssets       int64 `json:"netAssets"`
	// Discrepancy is 0 for any year other than the current one.
	Discrepancy   int64 `json:"discrepancy"`
	IsCurrentYear bool  `json:"isCurrentYear"`
}

// SearchResult is one flattened, searchable ledger line. It is derived, never stored.
type SearchResult struct {
	Source      Source `json:"source"`
	Year        int    `json:"year"`
	Month       int    `json:"month,omitempty"`
	Name        string `json:"name,omitempty"`
	Memo        string `json:"memo,omitempty"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}
