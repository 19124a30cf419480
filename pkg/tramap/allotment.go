package tramap

import "github.com/txedinfo/tramap/pkg/tapr/models"

// SmallDistrictEnrollment is the largest district enrollment that still
// receives the small-district allotment.
const SmallDistrictEnrollment = 5000

// Marker fill colors.
const (
	ColorSmall = "#0D92F4"
	ColorLarge = "#F95454"
)

// Allotment is the per-teacher retention allotment of a district, in dollars.
type Allotment struct {
	// ThreeToFour applies to teachers with three or four years of experience.
	ThreeToFour int
	// FivePlus applies to teachers with five or more years of experience.
	FivePlus int
	// Color is the marker fill for the district size.
	Color string
}

var (
	smallAllotment = Allotment{ThreeToFour: 5000, FivePlus: 10000, Color: ColorSmall}
	largeAllotment = Allotment{ThreeToFour: 2500, FivePlus: 5500, Color: ColorLarge}
)

// AllotmentFor returns the allotment for a district enrollment.
// An unknown enrollment is treated as a large district.
func AllotmentFor(enrollment models.Value) Allotment {
	if n, ok := enrollment.Float(); ok && n <= SmallDistrictEnrollment {
		return smallAllotment
	}
	return largeAllotment
}
