package models

// MonsoonRun is a maximal contiguous range of series positions whose months
// fall in June-September. Positions are 0-based and inclusive.
type MonsoonRun struct {
	StartPos int `json:"start_pos" msgpack:"start_pos"`
	EndPos   int `json:"end_pos" msgpack:"end_pos"`
}

// Series is the ordered monthly table for one request.
type Series struct {
	Rows        []MonthlyObservation `json:"rows" msgpack:"rows"`
	MonsoonRuns []MonsoonRun         `json:"monsoon_runs" msgpack:"monsoon_runs"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

func (s *Series) Months() []string {
	out := make([]string, 0, s.Len())
	for _, r := range s.Rows {
		out = append(out, r.Month)
	}
	return out
}

func (s *Series) Chlorophyll() []*float64 {
	out := make([]*float64, 0, s.Len())
	for _, r := range s.Rows {
		out = append(out, r.ChlorophyllIndex)
	}
	return out
}

func (s *Series) Turbidity() []*float64 {
	out := make([]*float64, 0, s.Len())
	for _, r := range s.Rows {
		out = append(out, r.TurbidityIndex)
	}
	return out
}

// HasChlorophyll reports whether any row has a chlorophyll value.
func (s *Series) HasChlorophyll() bool {
	for _, v := range s.Chlorophyll() {
		if v != nil {
			return true
		}
	}
	return false
}
