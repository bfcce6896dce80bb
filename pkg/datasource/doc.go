// Package datasource provides one source per content kind on top of
// pagination.Fetcher.
//
// Listing sources (Articles, Gallery, Search) continue from the number of
// records already loaded. Category sources (Countries, Regions) answer from
// their accumulated records when any record's categories contain the
// requested category as a substring, and only query the delivery API when
// none match. A category with no records is therefore fetched again on
// every call. Document sources (Home, About, Contacts, Destinations) load a
// single document.
package datasource
