// Package modeladapter defines the service contract for model providers and
// the shared machinery concrete adapters build on.
//
// It contains:
//   - [Service] and [ChatService] interfaces, plus the [Generate] and [OpenStream] helpers that run prompt and config validation before dispatch
//   - embeddable [ModelAdapter] base struct with HTTP helpers, auth, custom headers, request ids and rate limit header tracking
//   - [Stream], a single-use pull sequence of text fragments, and [EventChunks] for splitting Server-Sent Events bodies
//   - validation rules shared by every provider ([ValidateConfig], [ValidateMessages], [ValidateForDescriptor])
//   - [UsageReporter] and [RateLimitInfoReporter], optional interfaces for services that expose running token totals and rate limit headers
//   - [github.com/germanamz/modelservice/pkg/modeladapter/usage] for constant-memory usage totals
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages that import modeladapter.
package modeladapter
