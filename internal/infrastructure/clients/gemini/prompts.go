package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keaype/bodega-backend/internal/domain/entities"
)

const intentPromptTemplate = `Eres el motor de interpretacion de un marketplace de bodegas de barrio en Peru.
Tu unica tarea es convertir el mensaje del cliente en una lista de compras estructurada.

LISTA ACTUAL (estado previo de la conversacion):
%s

HISTORIAL RECIENTE:
%s

MENSAJE DEL CLIENTE:
%s

REGLAS:
1. Devuelve la lista COMPLETA resultante, no solo los cambios. Si el cliente agrega un producto, conserva los anteriores; si quita uno, eliminalo; si corrige cantidad o atributos, reemplaza ese item.
2. "product_name" es el nombre generico del producto en minusculas (ej: "arroz", "gaseosa", "leche").
3. "quantity" es un entero >= 1. Si el cliente no indica cantidad, usa 1.
4. "must_contain" lleva atributos obligatorios que el cliente exige (ej: ["sin gas"], ["integral"]).
5. "must_not_contain" lleva atributos que el cliente rechaza explicitamente.
6. "preferred_attributes" lleva preferencias suaves como marca o tamano (ej: ["inca kola", "2 litros"]).
7. Si el mensaje es un saludo o no pide productos, devuelve la lista actual sin cambios (o [] si estaba vacia).

Responde UNICAMENTE con un arreglo JSON de objetos con las claves
"product_name", "quantity", "must_contain", "must_not_contain", "preferred_attributes".`

const replyPromptTemplate = `Eres "Don Bodega", el bodeguero virtual de un marketplace de barrio en Peru.
Hablas en espanol peruano, calido y directo, como un bodeguero de confianza. Maximo 3 oraciones, sin markdown.

El cliente escribio: %s

Resultado de la busqueda en las bodegas cercanas:
%s

Redacta una respuesta corta para el cliente. Si se encontro todo, dilo con entusiasmo y menciona la mejor opcion.
Si falto algo, dilo con honestidad y ofrece lo que si hay. No inventes productos ni precios.`

// buildIntentPrompt renders the interpretation prompt with the prior list
// and a compact transcript of the recent turns.
func buildIntentPrompt(utterance string, prior []entities.ShoppingIntentItem, history []entities.ChatMessage) (string, error) {
	if prior == nil {
		prior = []entities.ShoppingIntentItem{}
	}
	priorJSON, err := json.Marshal(prior)
	if err != nil {
		return "", err
	}

	transcript := "(sin historial)"
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, message := range history {
			speaker := "Cliente"
			if message.Role == entities.RoleTurnAssistant {
				speaker = "Bodeguero"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", speaker, message.Content))
		}
		transcript = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(intentPromptTemplate, string(priorJSON), transcript, utterance), nil
}

func buildReplyPrompt(utterance, outcomeSummary string) string {
	return fmt.Sprintf(replyPromptTemplate, utterance, outcomeSummary)
}
