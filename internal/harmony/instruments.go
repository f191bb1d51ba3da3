package harmony

import "sort"

// Profile is the static playability description of one instrument: clef,
// sounding range and written-pitch transposition.
type Profile struct {
	Name          string `json:"name"`
	ClefSign      string `json:"clef_sign"`
	ClefLine      int    `json:"clef_line"`
	MinPitch      int    `json:"min_pitch"`
	MaxPitch      int    `json:"max_pitch"`
	Transposition int    `json:"transposition"`
}

// instrumentProfiles is the supported-instrument table. Transpositions are
// written minus sounding: +2 for B-flat instruments, +7 for horn in F,
// +12 for tenor voice notated an octave up.
var instrumentProfiles = map[string]Profile{
	"Violin":          {Name: "Violin", ClefSign: "G", ClefLine: 2, MinPitch: 55, MaxPitch: 96, Transposition: 0},
	"Viola":           {Name: "Viola", ClefSign: "C", ClefLine: 3, MinPitch: 48, MaxPitch: 84, Transposition: 0},
	"Cello":           {Name: "Cello", ClefSign: "F", ClefLine: 4, MinPitch: 36, MaxPitch: 76, Transposition: 0},
	"Double Bass":     {Name: "Double Bass", ClefSign: "F", ClefLine: 4, MinPitch: 28, MaxPitch: 67, Transposition: 12},
	"Flute":           {Name: "Flute", ClefSign: "G", ClefLine: 2, MinPitch: 60, MaxPitch: 96, Transposition: 0},
	"Oboe":            {Name: "Oboe", ClefSign: "G", ClefLine: 2, MinPitch: 58, MaxPitch: 91, Transposition: 0},
	"B-flat Clarinet": {Name: "B-flat Clarinet", ClefSign: "G", ClefLine: 2, MinPitch: 50, MaxPitch: 94, Transposition: 2},
	"Bassoon":         {Name: "Bassoon", ClefSign: "F", ClefLine: 4, MinPitch: 34, MaxPitch: 75, Transposition: 0},
	"F Horn":          {Name: "F Horn", ClefSign: "G", ClefLine: 2, MinPitch: 41, MaxPitch: 77, Transposition: 7},
	"B-flat Trumpet":  {Name: "B-flat Trumpet", ClefSign: "G", ClefLine: 2, MinPitch: 55, MaxPitch: 82, Transposition: 2},
	"Trombone":        {Name: "Trombone", ClefSign: "F", ClefLine: 4, MinPitch: 40, MaxPitch: 72, Transposition: 0},
	"Tenor Voice":     {Name: "Tenor Voice", ClefSign: "G", ClefLine: 2, MinPitch: 48, MaxPitch: 69, Transposition: 12},
}

// defaultProfile backs unknown instrument names.
var defaultProfile = Profile{
	Name: "Unknown", ClefSign: "G", ClefLine: 2, MinPitch: 55, MaxPitch: 84, Transposition: 0,
}

// LookupProfile resolves an instrument name, falling back to the default
// profile for names the table does not know.
func LookupProfile(name string) Profile {
	if p, ok := instrumentProfiles[name]; ok {
		return p
	}
	p := defaultProfile
	if name != "" {
		p.Name = name
	}
	return p
}

// Profiles returns the full instrument table in name order plus the
// default entry, for clients building an instrument picker.
func Profiles() []Profile {
	names := make([]string, 0, len(instrumentProfiles))
	for n := range instrumentProfiles {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Profile, 0, len(names)+1)
	for _, n := range names {
		out = append(out, instrumentProfiles[n])
	}
	out = append(out, defaultProfile)
	return out
}
