package models

// YearSummary aggregates the complete rows of one year.
type YearSummary struct {
	Year                 int     `json:"year"`
	Countries            int     `json:"countries"`
	TotalPopulation      float64 `json:"total_population"`
	MeanLifeExpectancy   float64 `json:"mean_life_expectancy"`
	MedianLifeExpectancy float64 `json:"median_life_expectancy"`
	MedianGNIPerCapita   float64 `json:"median_gni_per_capita"`
	MinGNIPerCapita      float64 `json:"min_gni_per_capita"`
	MaxGNIPerCapita      float64 `json:"max_gni_per_capita"`
}

// Axis describes one chart axis.
type Axis struct {
	Field string      `json:"field"`
	Title string      `json:"title"`
	Log   bool        `json:"log,omitempty"`
	Range *[2]float64 `json:"range,omitempty"`
}

// Series is one country's legend entry.
type Series struct {
	Country string `json:"country"`
	Color   string `json:"color"`
}

// Point is one bubble.
type Point struct {
	Country        string  `json:"country"`
	GNIPerCapita   float64 `json:"gni_per_capita"`
	LifeExpectancy float64 `json:"life_expectancy"`
	Population     float64 `json:"population"`
	Size           float64 `json:"size"`
}

// Frame is one animation step.
type Frame struct {
	Year   int     `json:"year"`
	Points []Point `json:"points"`
}

// ChartData is an animated bubble chart ready for a plotting front end.
type ChartData struct {
	Title          string   `json:"title"`
	X              Axis     `json:"x"`
	Y              Axis     `json:"y"`
	SizeField      string   `json:"size_field"`
	MaxSize        float64  `json:"max_size"`
	AnimationFrame string   `json:"animation_frame"`
	AnimationGroup string   `json:"animation_group"`
	Selected       []string `json:"selected"`
	Series         []Series `json:"series"`
	Frames         []Frame  `json:"frames"`
	Warning        string   `json:"warning,omitempty"`
}

// CountryList is the selection control payload.
type CountryList struct {
	Countries []string `json:"countries"`
	Default   []string `json:"default"`
}

// LoadStatus reports the state of the background load.
type LoadStatus struct {
	Ready       bool        `json:"ready"`
	Error       string      `json:"error,omitempty"`
	Code        string      `json:"code,omitempty"`
	Records     int         `json:"records"`
	Countries   int         `json:"countries"`
	LoadedAt    string      `json:"loaded_at,omitempty"`
	DurationMS  int64       `json:"duration_ms"`
	Diagnostics interface{} `json:"diagnostics,omitempty"`
}
