package domain

// VirtualModel is a named synthesis subject. Static reference data; the
// pipeline reads it to build prompts and never mutates it.
type VirtualModel struct {
	ID        string
	Name      string
	Gender    string
	BodyType  string
	Ethnicity string
	StyleTags []string
	ImageURL  string
}
