package analyzer

import "errors"

var (
	// ErrMissingAPIKey indicates no LLM API key is configured
	ErrMissingAPIKey = errors.New("llm api key is required")

	// ErrRequestFailed indicates the completion request itself failed
	ErrRequestFailed = errors.New("llm request failed")

	// ErrEmptyResponse indicates the completion carried no choices or content
	ErrEmptyResponse = errors.New("empty completion response")

	// ErrInvalidResponse indicates the completion content is not the expected JSON object
	ErrInvalidResponse = errors.New("invalid analysis response")
)
