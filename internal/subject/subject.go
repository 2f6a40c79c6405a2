// Package subject holds the fixed catalog of quiz subjects and their
// numeric codes used as a model feature.
package subject

import "strings"

// Subject is a quiz subject name as shown to the user.
type Subject string

const (
	Math      Subject = "Math"
	Biology   Subject = "Biology"
	IndianLaw Subject = "Indian Law"
	Geography Subject = "Geography"
	English   Subject = "English"
)

// UnknownCode is the feature code for a subject outside the catalog.
const UnknownCode = 0

// All returns the catalog in menu order.
func All() []Subject {
	return []Subject{Math, Biology, IndianLaw, Geography, English}
}

// Code returns the feature code 1..5, or UnknownCode.
func (s Subject) Code() int {
	for i, known := range All() {
		if s == known {
			return i + 1
		}
	}
	return UnknownCode
}

// Known reports whether s is in the catalog.
func (s Subject) Known() bool {
	return s.Code() != UnknownCode
}

func (s Subject) String() string {
	return string(s)
}

// Lookup finds a catalog subject by name, ignoring case and surrounding
// whitespace.
func Lookup(name string) (Subject, bool) {
	name = strings.TrimSpace(name)
	for _, s := range All() {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return Subject(name), false
}

// FromMenu maps a 1-based menu choice to a subject.
func FromMenu(choice int) (Subject, bool) {
	all := All()
	if choice < 1 || choice > len(all) {
		return "", false
	}
	return all[choice-1], true
}
