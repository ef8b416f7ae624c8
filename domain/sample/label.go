// Package sample parses ODP/IODP style sample identifiers such as
// "113-695A-3H-2, 45-47" (leg-site+hole-core-section, interval top-bottom in cm).
package sample

import (
	"strconv"
	"strings"
	"unicode"

	"paleocore/domain/core"
)

// CoreCatcher is the section token used for core-catcher samples.
const CoreCatcher = "CC"

// Label is a parsed sample identifier.
type Label struct {
	Raw     string
	Leg     string
	Site    string
	Hole    string // single upper-case letter, selects the summary table
	Core    string // e.g. "3H"
	Section int    // 0 for core-catcher samples
	Catcher bool
	Top     float64 // interval top, cm below section top
	Bottom  float64 // interval bottom, cm below section top
}

// ParseLabel parses a sample label of the form "<leg>-<site><hole>-<core>-<section>, <top>-<bottom>".
func ParseLabel(s string) (Label, error) {
	label := Label{Raw: s}

	head, interval, ok := strings.Cut(s, ",")
	if !ok {
		return label, core.NewMalformedLabelError(s, "missing interval after comma")
	}

	parts := strings.Split(head, "-")
	if len(parts) != 4 {
		return label, core.NewMalformedLabelError(s, "expected leg-hole-core-section")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return label, core.NewMalformedLabelError(s, "empty label component")
		}
	}

	label.Leg = parts[0]

	siteHole := parts[1]
	hole := rune(siteHole[len(siteHole)-1])
	if !unicode.IsLetter(hole) {
		return label, core.NewMalformedLabelError(s, "hole must end with a letter")
	}
	label.Hole = strings.ToUpper(string(hole))
	label.Site = siteHole[:len(siteHole)-1]
	label.Core = parts[2]

	section := parts[3]
	if section[0] == 'C' || section[0] == 'c' {
		label.Catcher = true
	} else {
		digits := leadingDigits(section)
		if digits == "" {
			return label, core.NewMalformedLabelError(s, "section is neither a number nor CC")
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return label, core.NewMalformedLabelError(s, err.Error())
		}
		label.Section = n
	}

	ends := strings.Split(interval, "-")
	if len(ends) != 2 {
		return label, core.NewMalformedLabelError(s, "interval must be top-bottom")
	}
	top, err := strconv.ParseFloat(strings.TrimSpace(ends[0]), 64)
	if err != nil {
		return label, core.NewMalformedLabelError(s, "interval top is not a number")
	}
	bottom, err := strconv.ParseFloat(strings.TrimSpace(ends[1]), 64)
	if err != nil {
		return label, core.NewMalformedLabelError(s, "interval bottom is not a number")
	}
	label.Top, label.Bottom = top, bottom

	return label, nil
}

// Midpoint returns the interval midpoint in metres below the section top.
func (l Label) Midpoint() float64 {
	return (l.Top + l.Bottom) / 200
}

// SectionKey returns the section as written in summary tables: a number or "CC".
func (l Label) SectionKey() string {
	if l.Catcher {
		return CoreCatcher
	}
	return strconv.Itoa(l.Section)
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
