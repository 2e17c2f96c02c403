// Package domain models wave buoy observations pulled from a tabular
// oceanographic export and the schema inference needed to read them.
//
// # Data Source
//
// Observations come from a single CSV export of a marine data feed (an
// ERDDAP-style tabledap endpoint), fetched whole once per run. The export's
// column names, row layout, and station-identifying fields drift between
// snapshots, so nothing about the structure is assumed up front.
//
// # Export Conventions
//
// Column roles are inferred once per dataset by [ResolveRoles]: for each
// logical role a list of exact candidate names is tried case-insensitively in
// priority order, and only when none match is a list of substring needles
// tried against the case-folded headers.
//
// The export arrives in one of two layouts, detected by [DetectShape]:
//
//	wide:  one row per timestamp, one column per measurement
//	       time,station_id,Hm0,Tp,Tz,PeakDirection
//	long:  one row per timestamp+parameter pair, a shared value column
//	       time,station_id,parameter,value
//
// Every raw parameter label or wide column header maps onto a fixed canonical
// vocabulary via [ClassifyParameter]:
//
//	hm0  significant wave height    "Hm0", "Hs", "SignificantWaveHeight"
//	tp   peak period                "Tp", "Tpeak", "PeakPeriod", "Tpp"
//	tz   zero-crossing period       "Tz", "T02", "ZeroCrossingPeriod"
//	dir  wave direction             "Wpdir", "Dp", "PeakDirection", "Mwd",
//	                                "MeanDirection", "Direction"
//
// Labels matching none of these classes are ignored for canonical purposes.
//
// Timestamps appear as ISO-8601, "DD/MM/YYYY HH:MM[:SS]", or
// "YYYY-MM-DD HH:MM[:SS]", always UTC; [NormalizeTimestamp] canonicalizes all
// of them to millisecond-precision ISO-8601 UTC. Unit rows that some exports
// slip under the header ("UTC,m,s,deg") fail timestamp normalization and are
// dropped as ordinary row noise. Numeric cells occasionally use a comma
// decimal separator ("1,5"), handled by [ParseValue].
//
// # Station Selection
//
// One run targets exactly one station. [StationIdentity.Matches] ORs three
// signal types so a row is kept when any one of them fires: an exact
// case-insensitive station or platform code match, a digit-stripped
// instrument-id equality, or a configured site name appearing as a substring
// of the row's identity text. The permissive OR tolerates exports that rename
// or re-granulate the identifying field between snapshots.
//
// # Reduction
//
// [Reducer] folds selected triples into one record per normalized timestamp
// with last-write-wins per (timestamp, key), then emits the records sorted by
// timestamp string; lexical order of the canonical layout is chronological
// order. The last element is the latest snapshot.
package domain
