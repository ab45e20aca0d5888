package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tootli/dineout-assistant/models"
)

// FallbackNoIntersection replaces the model's text when the previous-turn
// intersection comes up empty.
const FallbackNoIntersection = "No hay restaurantes que cumplan todas las condiciones. ¿Quieres ver resultados que solo cumplan la última condición?"

// markerPattern matches the trailing machine-readable marker the prompt asks
// the model to emit. The keyword is case sensitive; whitespace around the
// colon and inside the brackets is tolerated. Only the first match is used.
var markerPattern = regexp.MustCompile(`\[\s*RECOMMENDATION_IDS\s*:\s*([^\]]*)\]`)

// ExtractIDs pulls the identifier list out of the model's raw reply and
// strips the marker span from the visible text. A missing marker is not an
// error: the ids are empty, the text comes back unchanged and the third
// result is false so callers skip reconciliation entirely. Non-numeric
// payload tokens are dropped silently.
func ExtractIDs(reply string) ([]uint64, string, bool) {
	loc := markerPattern.FindStringSubmatchIndex(reply)
	if loc == nil {
		return nil, reply, false
	}

	payload := reply[loc[2]:loc[3]]

	var ids []uint64
	for _, token := range strings.Split(payload, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	text := strings.TrimSpace(reply[:loc[0]] + reply[loc[1]:])

	return ids, text, true
}

// Reconcile restricts the extracted ids to ones present in the current
// candidate list, preserving order and duplicates, then intersects with the
// previous-turn ids when those were supplied. It reports whether the
// intersection emptied the list, in which case the caller substitutes the
// fixed fallback sentence. Only applies to replies that carried a marker;
// a marker-less reply never reaches this step.
func Reconcile(extracted []uint64, candidates []models.Candidate, previous []uint64) ([]uint64, bool) {
	known := make(map[uint64]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	var filtered []uint64
	for _, id := range extracted {
		if known[id] {
			filtered = append(filtered, id)
		}
	}

	if len(previous) == 0 {
		return filtered, false
	}

	prev := make(map[uint64]bool, len(previous))
	for _, id := range previous {
		prev[id] = true
	}

	var intersected []uint64
	for _, id := range filtered {
		if prev[id] {
			intersected = append(intersected, id)
		}
	}

	if len(intersected) == 0 {
		return nil, true
	}

	return intersected, false
}
