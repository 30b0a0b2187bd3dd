// Package band classifies numeric country scores into discrete
// severity bands. All functions are pure: score in, band out.
package band

// Band is a labeled, colored severity range. Min and Max are inclusive
// integer bounds; the full table partitions [0,100] with no gaps or
// overlaps.
type Band struct {
	Min   int
	Max   int
	Label string
	Color string
}

// bands is ordered ascending from harshest to mildest.
var bands = []Band{
	{0, 9, "Damnation", "#7f1d1d"},
	{10, 18, "Excommunication", "#991b1b"},
	{19, 27, "Reprobation", "#b91c1c"},
	{28, 36, "Strong Denunciation", "#dc2626"},
	{37, 45, "Denunciation", "#ea580c"},
	{46, 54, "Strong Reproach", "#f97316"},
	{55, 63, "Reproach", "#f59e0b"},
	{64, 72, "Extreme Disapproval", "#eab308"},
	{73, 81, "Strong Disapproval", "#a3a332"},
	{82, 90, "Disapproval", "#65a30d"},
	{91, 100, "No Commentary", "#4d7c0f"},
}

// Bands returns the full classification table, harshest first.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Classify maps a score in [0,100] to its band. Callers must route
// missing scores through the no-data path instead; a NaN or sentinel
// score here is a caller bug, not a displayable state.
//
// Integer scores select the unique band with Min <= score <= Max.
// Fractional scores between two bands belong to the higher band.
func Classify(score float64) Band {
	for _, b := range bands {
		if score <= float64(b.Max) {
			return b
		}
	}
	return bands[len(bands)-1]
}
