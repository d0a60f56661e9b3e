package ga4

// Wire types for the Data API v1beta report methods. Only the fields the
// widget reads or sends are declared.

type Dimension struct {
	Name string `json:"name"`
}

type Metric struct {
	Name string `json:"name"`
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ReportRequest struct {
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Metrics    []Metric    `json:"metrics"`
	DateRanges []DateRange `json:"dateRanges,omitempty"`
}

type ReportResponse struct {
	Rows     []Row `json:"rows"`
	RowCount int   `json:"rowCount"`
}

type Row struct {
	DimensionValues []Value `json:"dimensionValues"`
	MetricValues    []Value `json:"metricValues"`
}

type Value struct {
	Value string `json:"value"`
}

// dimension and metric return "" for missing positions.
func (r Row) dimension(i int) string {
	if i < len(r.DimensionValues) {
		return r.DimensionValues[i].Value
	}
	return ""
}

func (r Row) metric(i int) string {
	if i < len(r.MetricValues) {
		return r.MetricValues[i].Value
	}
	return ""
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
