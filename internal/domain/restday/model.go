package restday

// Result aggregates one backfill run.
type Result struct {
	Leagues   int `json:"leagues"`
	Processed int `json:"processed"`
	Assigned  int `json:"assigned"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
