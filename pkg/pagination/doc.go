// Package pagination provides the paged, deduplicating record fetcher used
// by every content source.
//
// A Fetcher owns the records accumulated for one content kind. Each fetch
// issues one search request, decodes the returned documents and appends
// records whose id has not been seen, in arrival order. The total reported
// by the last successful response decides whether another page exists.
//
// Example usage:
//
//	f := pagination.New(httpClient, query.Default(), "articles", content.DecodeArticle, logger)
//	batch, err := f.Fetch(ctx, query.Articles(0, 0, ""))
//	for f.CanFetchNextPage() {
//		batch, err = f.NextPage(ctx)
//	}
//
// Failures never change fetcher state:
//   - transport failures, non-200 status and empty bodies return ErrTransport
//   - a body that is not a search envelope returns content.ErrEnvelope
//   - a document that is not valid UTF-8 aborts the batch with content.ErrEncoding
//
// Documents that do not match the record schema are dropped silently.
//
// Calls on one Fetcher are serialized; a second Fetch waits for the first
// to finish or for its own context to end.
package pagination
