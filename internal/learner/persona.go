package learner

import (
	"fmt"
	"strings"
)

// Persona is the tone profile that shapes generated content.
type Persona string

const (
	PersonaStudent      Persona = "Student"
	PersonaProfessional Persona = "Professional"
	PersonaCurious      Persona = "Curious Learner"
)

// AllPersonas returns the personas in onboarding order.
func AllPersonas() []Persona {
	return []Persona{PersonaStudent, PersonaProfessional, PersonaCurious}
}

// Description returns the onboarding blurb for the persona.
func (p Persona) Description() string {
	switch p {
	case PersonaStudent:
		return "Preparing for exams and building strong foundations"
	case PersonaProfessional:
		return "Upskilling for work, interviews and real projects"
	case PersonaCurious:
		return "Exploring a topic for the joy of it"
	default:
		return ""
	}
}

// Valid reports whether p is one of the known personas.
func (p Persona) Valid() bool {
	switch p {
	case PersonaStudent, PersonaProfessional, PersonaCurious:
		return true
	}
	return false
}

// ParsePersona accepts a display name or a short key (student, professional, curious).
func ParsePersona(s string) (Persona, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return PersonaStudent, nil
	case "professional", "pro":
		return PersonaProfessional, nil
	case "curious", "curious learner", "curious_learner":
		return PersonaCurious, nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}
