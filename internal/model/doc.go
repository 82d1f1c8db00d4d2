// Package model defines the core data structures for seoscan.
//
// The central types are Entity (a named entity extracted from a crawled
// page together with its salience score) and ScanReport (the accumulated
// result of crawling and analyzing one site). Statistics and Filter
// provide the aggregation and filtering transforms applied to entity
// lists before export.
//
// All types in this package are plain data holders scoped to a single
// scan invocation. Persistence is handled by the database package and
// presentation by the report package.
package model
