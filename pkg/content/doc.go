// Package content holds the typed records of the travel content hub and the
// decoders that turn delivery search documents into them.
//
// Every search hit carries a "document" field: a JSON string whose decoded
// form is {"id": ..., "elements": {...}}. Each record type has one decoder
// that maps elements.<key> to typed fields and rejects documents missing a
// required element. SearchResult is the tagged union produced by the mixed
// article/gallery search.
//
// Failure severities differ by stage:
//
//   - a document that does not match a schema is dropped (ErrSchemaMismatch)
//   - a document whose text is not valid UTF-8 aborts the whole batch (ErrEncoding)
//   - an envelope that is not valid JSON fails the response (ErrEnvelope)
package content
