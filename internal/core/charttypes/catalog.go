// Package charttypes is the chart gallery catalog
package charttypes

import "strings"

// ChartType describes one entry of the gallery
type ChartType struct {
	ID          string   `json:"id" example:"bar-chart"`
	Name        string   `json:"name" example:"Bar Chart"`
	Description string   `json:"description" example:"Compare values across categories"`
	Category    string   `json:"category" example:"Basic"`
	Tags        []string `json:"tags" example:"Popular,Basic"`
}

// Gallery categories
const (
	CategoryKPI         = "KPI"
	CategoryBasic       = "Basic"
	CategoryAdvanced    = "Advanced"
	CategorySpecialized = "Specialized"

	// CategoryAll matches every chart type
	CategoryAll = "All charts"
)

// Categories lists the gallery categories in display order
var Categories = []string{CategoryKPI, CategoryBasic, CategoryAdvanced, CategorySpecialized}

// Datasets is the default dataset list offered by the builder
var Datasets = []string{"light_table", "druid-test"}

// catalog is the full gallery in display order
var catalog = []ChartType{
	{ID: "big-number", Name: "Big Number", Description: "Display a single key metric", Category: CategoryKPI, Tags: []string{"Popular", "KPI"}},
	{ID: "big-number-trend", Name: "Big Number with Trendline", Description: "Display a key metric with trend indicator", Category: CategoryKPI, Tags: []string{"Popular", "KPI"}},

	{ID: "bar-chart", Name: "Bar Chart", Description: "Compare values across categories", Category: CategoryBasic, Tags: []string{"Popular", "Basic"}},
	{ID: "line-chart", Name: "Line Chart", Description: "Show trends over time", Category: CategoryBasic, Tags: []string{"Popular", "Basic"}},
	{ID: "pie-chart", Name: "Pie Chart", Description: "Show parts of a whole", Category: CategoryBasic, Tags: []string{"Popular", "Basic"}},
	{ID: "area-chart", Name: "Area Chart", Description: "Show data trends with filled areas", Category: CategoryBasic, Tags: []string{"Popular", "Basic"}},

	{ID: "scatter-plot", Name: "Scatter Plot", Description: "Show relationship between two variables", Category: CategoryAdvanced, Tags: []string{"Advanced-Analytics", "Advanced"}},
	{ID: "multi-line", Name: "Multi Line Chart", Description: "Compare multiple trends over time", Category: CategoryAdvanced, Tags: []string{"Advanced-Analytics", "Advanced"}},
	{ID: "bubble-chart", Name: "Bubble Chart", Description: "Show relationships with size and position", Category: CategoryAdvanced, Tags: []string{"Advanced-Analytics", "Advanced"}},
	{ID: "heatmap", Name: "Heatmap", Description: "Show data density with color intensity", Category: CategoryAdvanced, Tags: []string{"Advanced-Analytics", "Advanced"}},

	{ID: "funnel-chart", Name: "Funnel Chart", Description: "Show conversion through stages", Category: CategorySpecialized, Tags: []string{"Specialized", "Conversion"}},
	{ID: "radar-chart", Name: "Radar Chart", Description: "Compare multiple variables in a circular format", Category: CategorySpecialized, Tags: []string{"Specialized", "Multi-variable"}},
	{ID: "time-series", Name: "Time Series", Description: "Analyze data points over time intervals", Category: CategorySpecialized, Tags: []string{"Specialized", "Time"}},
	{ID: "histogram", Name: "Histogram", Description: "Show distribution of data values", Category: CategorySpecialized, Tags: []string{"Specialized", "Distribution"}},
	{ID: "graph-chart", Name: "Graph Chart", Description: "Show relationships between nodes and edges", Category: CategorySpecialized, Tags: []string{"Specialized", "Network"}},
}

// aliases are the short names saved widgets and renderers use
var aliases = map[string]string{
	"bar":     "bar-chart",
	"line":    "line-chart",
	"pie":     "pie-chart",
	"area":    "area-chart",
	"scatter": "scatter-plot",
	"funnel":  "funnel-chart",
	"radar":   "radar-chart",
	"bubble":  "bubble-chart",
}

// All returns a copy of the catalog
func All() []ChartType {
	out := make([]ChartType, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a chart type by id or alias
func Lookup(id string) (ChartType, bool) {
	n := Normalize(id)
	for _, c := range catalog {
		if c.ID == n {
			return c, true
		}
	}
	return ChartType{}, false
}

// Normalize maps an alias or any casing of an id to the catalog id
// unknown ids come back lower cased and trimmed
func Normalize(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	if full, ok := aliases[s]; ok {
		return full
	}
	return s
}

// Known reports whether id resolves to a catalog entry
func Known(id string) bool {
	_, ok := Lookup(id)
	return ok
}
