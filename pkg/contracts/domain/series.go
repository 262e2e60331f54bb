package domain

// Series names. They double as CSV column headers, so they are short and
// stable rather than descriptive.
const (
	// SeriesDemand is hourly total consumption (all three sources).
	SeriesDemand = "demand"
	// SeriesPowerGeneration is NOSBiH's hourly hydropower production column.
	SeriesPowerGeneration = "power_generation"

	// MEPSO generation-mix technology groups, named after the Macedonian
	// abbreviations in the source report (ХЕЦ, ТЕЦ, ГАС, ВЕЦ, ФЕЦ).
	SeriesHydro   = "hec"
	SeriesThermal = "tec"
	SeriesGas     = "gas"
	SeriesWind    = "vec"
	SeriesSolar   = "fec"
)

// GenerationSeries lists the generation-mix columns in output header order.
var GenerationSeries = []string{SeriesHydro, SeriesThermal, SeriesGas, SeriesWind, SeriesSolar}
