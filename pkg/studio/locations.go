package studio

// StudioLocation is a place where classes are held. The list seeds the
// class form; classes keep their own denormalized location fields.
type StudioLocation struct {
	Name    string
	Address string
}

// DefaultLocations returns the seeded studio locations used when no
// explicit list has been configured.
func DefaultLocations() []StudioLocation {
	return []StudioLocation{
		{
			Name:    "Studio Picardia",
			Address: "12 rue des Jacobins, 80000 Amiens",
		},
	}
}
