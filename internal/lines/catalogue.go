package lines

// Group identifies which column of the panel a line belongs to.
type Group int

const (
	Underground Group = iota
	Overground
)

func (g Group) String() string {
	if g == Underground {
		return "underground"
	}
	return "overground"
}

// Line is one entry in the fixed TfL catalogue. The ID doubles as the
// display name and as the field name sent to the datastream, matching
// what the TfL Unified API reports for each line.
type Line struct {
	ID        string
	Group     Group
	Colour    string // official TfL brand colour
	DarkLabel bool   // label text renders dark on pale brand colours
}

// Catalogue is the full set of lines tracked by the panel. It is fixed
// for the lifetime of the process; no line is added or removed at runtime.
var Catalogue = []Line{
	{ID: "Bakerloo", Group: Underground, Colour: "#B36305"},
	{ID: "Central", Group: Underground, Colour: "#E32017"},
	{ID: "Circle", Group: Underground, Colour: "#FFD300", DarkLabel: true},
	{ID: "District", Group: Underground, Colour: "#00782A"},
	{ID: "Hammersmith & City", Group: Underground, Colour: "#F3A9BB", DarkLabel: true},
	{ID: "Jubilee", Group: Underground, Colour: "#A0A5A9"},
	{ID: "Metropolitan", Group: Underground, Colour: "#9B0056"},
	{ID: "Northern", Group: Underground, Colour: "#000000"},
	{ID: "Piccadilly", Group: Underground, Colour: "#003688"},
	{ID: "Victoria", Group: Underground, Colour: "#0098D4"},
	{ID: "Waterloo & City", Group: Underground, Colour: "#95CDBA", DarkLabel: true},
	{ID: "Liberty", Group: Overground, Colour: "#6bcdb2"},
	{ID: "Lioness", Group: Overground, Colour: "#fbb01c"},
	{ID: "Mildmay", Group: Overground, Colour: "#137cbd"},
	{ID: "Suffragette", Group: Overground, Colour: "#6a9a3a"},
	{ID: "Weaver", Group: Overground, Colour: "#9b4f7a"},
	{ID: "Windrush", Group: Overground, Colour: "#e05206"},
	{ID: "DLR", Group: Overground, Colour: "#00afad"},
	{ID: "Elizabeth line", Group: Overground, Colour: "#6950a1"},
	{ID: "Tram", Group: Overground, Colour: "#6fc42a"},
	{ID: "IFS Cloud Cable Car", Group: Overground, Colour: "#e21836"},
}

var catalogueByID = func() map[string]Line {
	m := make(map[string]Line, len(Catalogue))
	for _, l := range Catalogue {
		m[l.ID] = l
	}
	return m
}()

// ByID looks up a catalogue line by its ID.
func ByID(id string) (Line, bool) {
	l, ok := catalogueByID[id]
	return l, ok
}

// IDs returns the line IDs in catalogue order.
func IDs() []string {
	ids := make([]string, len(Catalogue))
	for i, l := range Catalogue {
		ids[i] = l.ID
	}
	return ids
}
