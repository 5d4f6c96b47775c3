// Package http provides the HTTP client used for imagery-service calls
// and raster transfers.
//
// This package handles:
//   - Connection pooling for parallel downloads
//   - JSON POST requests against the imagery service
//   - Streaming GET requests for raster payloads
//   - Status-code to error mapping
//
// The client is deliberately single-shot: retry policy belongs to the
// acquisition layer (internal/fetch), which treats a resolve+transfer
// pair as one attempt.
//
// # Usage
//
//	client := http.NewClient(Options{
//	    Timeout: 60 * time.Second,
//	})
//
//	body, err := client.Get(ctx, downloadURL)
//	defer body.Close()
package http
