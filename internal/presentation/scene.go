package presentation

import (
	"slices"
	"strings"
)

var logPOINames = map[string]bool{
	"logbook": true, "register": true, "receipt_bin": true, "badge_gate": true,
	"reader": true, "turnstile": true, "ticket_machine": true, "reception": true,
	"front_office": true, "front_desk": true, "desk": true, "monitor": true,
	"security_desk": true, "cashier": true, "till": true, "mail_area": true,
	"gate": true, "entry_gate": true,
}

var cctvPOINames = map[string]bool{
	"monitor": true, "security_desk": true, "reception": true,
	"front_office": true, "front_desk": true,
}

// poiName extracts the name part of a zone:name:index id.
func poiName(poiID string) string {
	parts := strings.Split(poiID, ":")
	if len(parts) >= 2 {
		return parts[1]
	}
	return poiID
}

func isLogPOI(poiID string, tags []string) bool {
	return logPOINames[poiName(poiID)] ||
		slices.Contains(tags, "security") ||
		slices.Contains(tags, "service")
}

func isCCTVPOI(poiID string, tags []string) bool {
	return cctvPOINames[poiName(poiID)] || slices.Contains(tags, "security")
}

// todSigma is the deviation of the time-of-death estimate for a body found
// somewhere with these tags. Exposed, busy places blur the estimate;
// sheltered ones sharpen it.
func todSigma(tags []string) float64 {
	adjust := []struct {
		tags  []string
		delta float64
	}{
		{[]string{"outdoor", "open"}, 0.9},
		{[]string{"transit"}, 0.5},
		{[]string{"nightlife", "roadside"}, 0.4},
		{[]string{"industrial", "service"}, 0.5},
		{[]string{"commercial"}, 0.2},
		{[]string{"public"}, 0.3},
		{[]string{"private"}, -0.2},
		{[]string{"interior"}, -0.2},
		{[]string{"lodging", "residential", "medical"}, -0.3},
		{[]string{"institution"}, -0.2},
	}
	sigma := 1.5
	for _, a := range adjust {
		for _, t := range a.tags {
			if slices.Contains(tags, t) {
				sigma += a.delta
				break
			}
		}
	}
	return clamp(sigma, 0.8, 3.0)
}

func rigorStage(hoursSince int) string {
	switch {
	case hoursSince <= 3:
		return "Rigor is beginning."
	case hoursSince <= 8:
		return "Rigor is established."
	}
	return "Rigor is fading."
}

func woundClass(methodCategory string) string {
	switch methodCategory {
	case "blunt":
		return "laceration"
	case "poison":
		return "no_obvious_trauma"
	}
	return "incision"
}

func woundObservation(class string) string {
	switch class {
	case "no_obvious_trauma":
		return "No obvious external trauma is visible at first glance."
	case "laceration":
		return "Irregular tearing and tissue bridging suggest blunt trauma."
	}
	return "Clean margins suggest a sharp instrument."
}

func entryObservation(accessPath string) string {
	switch accessPath {
	case "forced_entry":
		return "Scuffing and damage suggest forced entry."
	case "trusted_contact":
		return "No clear signs of forced entry; access may have been granted."
	}
	return "Entry appears routine; no immediate signs of force."
}

var traceNotes = []string{
	"Light scuffing suggests recent movement.",
	"A faint smear indicates contact with a surface.",
	"Dust displacement suggests something was moved.",
	"Small debris points to hurried movement.",
}
