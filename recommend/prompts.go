package recommend

import (
	"fmt"
	"sort"
	"strings"
)

var PersonaPrompt = `Eres "Tootli", un asistente amigable y experto en restaurantes para la app Dine-Out.
Tu personalidad es servicial, entusiasta y un poco divertida.`

var TaskPrompt = `Tu tarea es:
1. Saludar al usuario por su nombre de una forma cálida.
2. Analizar su petición (ej. aniversario, presupuesto, tipo de comida) y demostrar que la entendiste.
3. Recomendar 1 o 2 de los restaurantes de la lista que mejor se ajusten a su petición, explicando por qué.
4. Si ningún candidato parece bueno, sé honesto y dile que no encontraste una opción perfecta, pero sugiérele el que más se aproxime.
5. NO inventes información que no esté en la lista.
6. Mantén la respuesta concisa, amigable y en un solo párrafo si es posible.`

var IntersectionPrompt = `El usuario ya recibió recomendaciones en el turno anterior. SOLO puedes recomendar
restaurantes que aparezcan en la lista actual Y que también hayan sido recomendados
en el turno anterior. Si ninguno cumple ambas condiciones, no recomiendes ninguno.`

var MarkerFormatPrompt = `IMPORTANTE: termina SIEMPRE tu respuesta con una última línea con este formato exacto:
[RECOMMENDATION_IDS: id1, id2, ...]
usando los IDs numéricos de los restaurantes que recomiendas. Si no recomiendas
ninguno, termina con [RECOMMENDATION_IDS: ] vacío.`

var NoCandidatesPrompt = `No hay restaurantes pre-seleccionados para esta búsqueda. Dile amablemente al usuario
que no encontraste opciones con sus condiciones actuales y sugiérele ampliar la búsqueda
(otra zona, otro presupuesto u otro tipo de comida). Termina con [RECOMMENDATION_IDS: ] vacío.`

// BuildPrompt renders the full instruction block sent to the model. Pure
// string assembly; it never talks to the model itself.
func BuildPrompt(req *Request) string {
	var prompt strings.Builder

	prompt.WriteString(PersonaPrompt)
	prompt.WriteString("\n\n")

	prompt.WriteString(fmt.Sprintf("El usuario '%s' te ha hecho la siguiente petición: %q.\n\n", req.UserName, req.UserQuery))

	prompt.WriteString("Filtros aplicados por el usuario:\n")
	prompt.WriteString(stringifyFilters(req.Filters))
	prompt.WriteString("\n")

	if len(req.Candidates) == 0 {
		prompt.WriteString(NoCandidatesPrompt)
		return prompt.String()
	}

	prompt.WriteString("He pre-seleccionado estos restaurantes de nuestra base de datos.\n")
	prompt.WriteString("Tus recomendaciones DEBEN basarse ÚNICAMENTE en esta lista:\n")
	for _, candidate := range req.Candidates {
		prompt.WriteString("- " + candidate.Stringify() + "\n")
	}
	prompt.WriteString("\n")

	prompt.WriteString(TaskPrompt)
	prompt.WriteString("\n\n")

	if req.HasPrevious() {
		prompt.WriteString(IntersectionPrompt)
		prompt.WriteString("\n\n")
	}

	prompt.WriteString(MarkerFormatPrompt)

	return prompt.String()
}

// stringifyFilters renders the free-form filter map as "- key: value" lines
// in key order, or an explicit none marker. Filters are display-only.
func stringifyFilters(filters map[string]any) string {
	if len(filters) == 0 {
		return "ninguno\n"
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		out.WriteString(fmt.Sprintf("- %s: %v\n", k, filters[k]))
	}

	return out.String()
}
