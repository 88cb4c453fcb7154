// Package chats holds the provider-agnostic vocabulary for chat turns.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/modelservice/pkg/chats/role] : conversation roles (system, user, assistant)
//
// No provider or API code is included. Message and response shapes live in
// [github.com/germanamz/modelservice/pkg/providers/model].
package chats
