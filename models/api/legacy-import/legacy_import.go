package legacyimportapimodels

type RowResult struct {
	Row           int    `json:"row"`
	Email         string `json:"email"`
	ApplicationID string `json:"application_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type ImportResult struct {
	Imported []RowResult `json:"imported"`
	Skipped  []RowResult `json:"skipped"`
}
