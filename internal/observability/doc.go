// Package observability provides structured logging and provider outcome
// counters for the search gateway.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL / LOG_FORMAT
//   - Request-scoped loggers carrying request and search ids
//   - In-process counters of provider outcomes, served by the status API
package observability
