package features

// TimeCategory classifies a game by its base clock.
type TimeCategory string

const (
	Bullet       TimeCategory = "Bullet"
	Blitz        TimeCategory = "Blitz"
	Rapid        TimeCategory = "Rapid"
	Classical    TimeCategory = "Classical"
	Unclassified TimeCategory = "Unclassified"
)

// Categories lists the named categories in chart order. Unclassified is not part of it.
var Categories = []TimeCategory{Bullet, Blitz, Rapid, Classical}

// categoryBounds are upper edges; each interval is (previous, upper].
var categoryBounds = []struct {
	upper float64
	cat   TimeCategory
}{
	{2, Bullet},
	{8, Blitz},
	{15, Rapid},
	{60, Classical},
}

const categoryFloor = -1.0

// CategoryFor maps base minutes onto the half-open intervals
// (-1,2] (2,8] (8,15] (15,60]. Anything else is Unclassified.
func CategoryFor(minutes float64) TimeCategory {
	if minutes != minutes || minutes <= categoryFloor { // NaN or below range
		return Unclassified
	}
	for _, b := range categoryBounds {
		if minutes <= b.upper {
			return b.cat
		}
	}
	return Unclassified
}

// Categorize is CategoryFor over a parsed base; malformed codes are Unclassified.
func Categorize(b BaseMinutes) TimeCategory {
	if !b.Valid {
		return Unclassified
	}
	return CategoryFor(float64(b.Value))
}
