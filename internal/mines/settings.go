package mines

// Settings maps the two pointer buttons of a front-end onto actions.
type Settings struct {
	// OpenFirst makes the primary button open and the secondary mark. When
	// false the roles are swapped.
	OpenFirst bool `json:"open_first"`
	// AutoChord lets open/mark on an already open cell chord it.
	AutoChord bool `json:"auto_chord"`
}

var DefaultSettings = Settings{OpenFirst: true, AutoChord: true}

func (s Settings) PrimaryAction() Action {
	if s.OpenFirst {
		return Open
	}
	return Mark
}

func (s Settings) SecondaryAction() Action {
	if s.OpenFirst {
		return Mark
	}
	return Open
}
