// Package extract holds the pure parsers that pull acceptance statistics out
// of archived problem pages and archived problem-list API responses.
//
// Each strategy maps raw response text to an optional tracker.Stats. The
// HTML strategies are applied in order by FirstMatch; the API parser is used
// by the harvester once both HTML strategies miss.
package extract
