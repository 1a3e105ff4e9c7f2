package quotes

// SampleBars returns 30 MSFT daily bars, newest first (2019-04-25 back to 2019-03-14).
func SampleBars() []PriceBar {
	return []PriceBar{
		NewBar("2019-04-25", 130.06, 131.37, 128.83, 129.15),
		NewBar("2019-04-24", 125.79, 125.85, 124.52, 125.01),
		NewBar("2019-04-23", 124.10, 125.58, 123.83, 125.44),
		NewBar("2019-04-22", 122.62, 124.00, 122.57, 123.76),
		NewBar("2019-04-18", 122.19, 123.52, 121.30, 123.37),
		NewBar("2019-04-17", 121.24, 121.85, 120.54, 121.77),
		NewBar("2019-04-16", 121.64, 121.65, 120.10, 120.77),
		NewBar("2019-04-15", 120.94, 121.58, 120.57, 121.05),
		NewBar("2019-04-12", 120.64, 120.98, 120.37, 120.95),
		NewBar("2019-04-11", 120.54, 120.85, 119.92, 120.33),
		NewBar("2019-04-10", 119.76, 120.35, 119.54, 120.19),
		NewBar("2019-04-09", 118.63, 119.54, 118.58, 119.28),
		NewBar("2019-04-08", 119.81, 120.02, 118.64, 119.93),
		NewBar("2019-04-05", 119.39, 120.23, 119.37, 119.89),
		NewBar("2019-04-04", 120.10, 120.23, 118.38, 119.36),
		NewBar("2019-04-03", 119.86, 120.43, 119.15, 119.97),
		NewBar("2019-04-02", 119.06, 119.48, 118.52, 119.19),
		NewBar("2019-04-01", 118.95, 119.10, 118.10, 119.02),
		NewBar("2019-03-29", 118.07, 118.32, 116.96, 117.94),
		NewBar("2019-03-28", 117.44, 117.58, 116.13, 116.93),
		NewBar("2019-03-27", 117.87, 118.21, 115.52, 116.77),
		NewBar("2019-03-26", 118.62, 118.70, 116.85, 117.91),
		NewBar("2019-03-25", 116.56, 118.01, 116.32, 117.66),
		NewBar("2019-03-22", 119.50, 119.59, 117.04, 117.05),
		NewBar("2019-03-21", 117.13, 120.82, 117.09, 120.22),
		NewBar("2019-03-20", 117.39, 118.75, 116.71, 117.52),
		NewBar("2019-03-19", 118.09, 118.44, 116.99, 117.65),
		NewBar("2019-03-18", 116.17, 117.61, 116.05, 117.57),
		NewBar("2019-03-15", 115.34, 117.25, 114.59, 115.91),
		NewBar("2019-03-14", 114.54, 115.20, 114.33, 114.59),
	}
}
