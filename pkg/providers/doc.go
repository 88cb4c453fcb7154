// Package providers groups the data model and the concrete LLM provider adapters.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/modelservice/pkg/providers/model] : request configuration, messages, responses and provider descriptors
//   - [github.com/germanamz/modelservice/pkg/providers/openai] : adapter for the OpenAI Chat Completions API
//
// The shared service contract, validation rules and HTTP helpers live in
// [github.com/germanamz/modelservice/pkg/modeladapter].
package providers
