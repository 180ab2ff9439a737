package location

import "fmt"

const systemPrompt = "You are a geography expert. Answer only 'yes' or 'no'."

func matchQuestion(query, eventLocation string) string {
	return fmt.Sprintf(`Does the query location "%s" match the event location "%s"?

Consider:
- Exact matches (e.g., "Bangalore" matches "Bangalore, India")
- Alternative names (e.g., "Bengaluru" matches "Bangalore")
- Regional matches (e.g., "Bay Area" matches "San Francisco, USA")
- Country matches (e.g., "India" matches "Bangalore, India")
- Nearby cities in the same metro area (e.g., "San Jose" is close to "San Francisco")

Answer with ONLY "yes" or "no".`, query, eventLocation)
}
