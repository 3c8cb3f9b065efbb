// Package fetch retrieves raw feed payloads over HTTP with a bounded
// timeout. It knows nothing about formats or cities; caching and retry
// happen in the layers above.
package fetch
