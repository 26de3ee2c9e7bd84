package model

// ChartSpec is a themed figure description. Data and Layout serialize to the
// shape Plotly.js accepts in Plotly.newPlot.
type ChartSpec struct {
	Theme  string  `json:"theme"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one named line series.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	Line          Line      `json:"line"`
	HoverTemplate string    `json:"hovertemplate"`
}

type Line struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Title struct {
	Text string `json:"text,omitempty"`
	Font Font   `json:"font"`
}

type Axis struct {
	Title     Title  `json:"title"`
	ShowGrid  bool   `json:"showgrid"`
	GridColor string `json:"gridcolor"`
	ZeroLine  bool   `json:"zeroline"`
	TickFont  Font   `json:"tickfont"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
	Font        Font    `json:"font"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Layout struct {
	Title        Title  `json:"title"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	HoverMode    string `json:"hovermode"`
	Legend       Legend `json:"legend"`
	Margin       Margin `json:"margin"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	Font         Font   `json:"font"`
}

// Trace returns the trace with the given name, if any.
func (c *ChartSpec) Trace(name string) (Trace, bool) {
	for _, tr := range c.Data {
		if tr.Name == name {
			return tr, true
		}
	}
	return Trace{}, false
}
