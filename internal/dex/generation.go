package dex

// MaxID is the highest national dex number covered by the generation table.
const MaxID = 1025

// Range is an inclusive national dex id interval.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether id falls inside the range.
func (r Range) Contains(id int) bool {
	return id >= r.Start && id <= r.End
}

// Len is the number of ids in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// IDs lists every id in the range in ascending order.
func (r Range) IDs() []int {
	out := make([]int, 0, r.Len())
	for id := r.Start; id <= r.End; id++ {
		out = append(out, id)
	}
	return out
}

// ranges is indexed by generation-1. The intervals are contiguous.
var ranges = [...]Range{
	{1, 151},
	{152, 251},
	{252, 386},
	{387, 493},
	{494, 649},
	{650, 721},
	{722, 809},
	{810, 905},
	{906, MaxID},
}

// versions lists the game versions whose flavor text belongs to a generation.
var versions = [...][]string{
	{"red", "blue", "yellow"},
	{"gold", "silver", "crystal"},
	{"ruby", "sapphire", "emerald", "firered", "leafgreen"},
	{"diamond", "pearl", "platinum", "heartgold", "soulsilver"},
	{"black", "white", "black-2", "white-2"},
	{"x", "y", "omega-ruby", "alpha-sapphire"},
	{"sun", "moon", "ultra-sun", "ultra-moon", "lets-go-pikachu", "lets-go-eevee"},
	{"sword", "shield", "legends-arceus", "brilliant-diamond", "shining-pearl"},
	{"scarlet", "violet"},
}

// Count is the number of generations.
const Count = len(ranges)

// ValidGeneration reports whether gen is one of the defined generations.
func ValidGeneration(gen int) bool {
	return gen >= 1 && gen <= Count
}

// Generations returns 1..Count.
func Generations() []int {
	out := make([]int, Count)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// RangeOf returns the id interval of a generation.
func RangeOf(gen int) (Range, bool) {
	if !ValidGeneration(gen) {
		return Range{}, false
	}
	return ranges[gen-1], true
}

// GenerationOf maps an id to its generation. Ids past MaxID clamp to the
// last generation and ids below 1 clamp to the first.
func GenerationOf(id int) int {
	for i, r := range ranges {
		if id <= r.End {
			return i + 1
		}
	}
	return Count
}

// ClampGeneration forces gen into 1..Count.
func ClampGeneration(gen int) int {
	if gen < 1 {
		return 1
	}
	if gen > Count {
		return Count
	}
	return gen
}

// VersionsOf returns the game versions whose flavor text is attributed to gen.
func VersionsOf(gen int) []string {
	if !ValidGeneration(gen) {
		return nil
	}
	return append([]string(nil), versions[gen-1]...)
}

// VersionGeneration returns the generation a game version belongs to, or 0.
func VersionGeneration(version string) int {
	for i, vs := range versions {
		for _, v := range vs {
			if v == version {
				return i + 1
			}
		}
	}
	return 0
}
