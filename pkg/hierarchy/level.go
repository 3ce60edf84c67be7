package hierarchy

// Crumb is one step of the breadcrumb trail above a level.
type Crumb struct {
	Name string `json:"name"`
	Key  Key    `json:"key"`
}

// Level is the list of records shown at one key.
//
// ParentShare is the fraction of the whole budget the level's parent holds.
// It is nil at the root and whenever the parent is unknown; an explicit zero
// means the parent exists but holds nothing.
type Level struct {
	Key         Key      `json:"key"`
	Title       string   `json:"title"`
	Total       float64  `json:"total"`
	Records     []Record `json:"records"`
	ParentShare *float64 `json:"parent_share,omitempty"`
	Breadcrumbs []Crumb  `json:"breadcrumbs,omitempty"`
}

// Share returns a pointer to v, for populating ParentShare.
func Share(v float64) *float64 {
	return &v
}

// Sum returns the total value of the level's records.
func (l Level) Sum() float64 {
	return Sum(l.Records)
}

// Find returns the record with the given id.
func (l Level) Find(id string) (Record, bool) {
	for _, r := range l.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
