// Package gemini implements the generation interface using Google's Gemini
// API to produce practice scenarios for target phrases.
package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	// Phrases are the English target phrases the scenario must embed
	Phrases []string

	// Topic is the conversational setting for the scenario
	Topic string
}

// scenarioSchema represents the expected JSON structure of a Gemini response
type scenarioSchema struct {
	// Script is the practice script embedding the target phrases
	Script string `json:"script"`

	// Reference is the Chinese reference translation of the script
	Reference string `json:"reference"`

	// Highlights are the target phrases as they appear in the script
	Highlights []string `json:"highlights"`
}
