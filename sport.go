package trackexport

// Sport is the category written into both documents.
type Sport string

const (
	SportRunning Sport = "Running"
	SportBiking  Sport = "Biking"
	SportOther   Sport = "Other"
)

// sportByTypeCode maps the watch's raw type codes onto the exported categories.
var sportByTypeCode = map[int]Sport{
	1:  SportRunning,
	2:  SportRunning,
	3:  SportRunning,
	4:  SportRunning,
	5:  SportBiking,
	6:  SportOther,
	7:  SportRunning,
	8:  SportRunning,
	9:  SportBiking,
	10: SportBiking,
}

// Classify maps a raw type code to a sport. Absent or unknown codes are SportOther.
func Classify(typeCode *int) Sport {
	if typeCode == nil {
		return SportOther
	}
	if sport, ok := sportByTypeCode[*typeCode]; ok {
		return sport
	}
	return SportOther
}
