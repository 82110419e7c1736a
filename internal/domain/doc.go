// Package domain holds the surf-buddy recommendation engine and the pure
// analysis around it. Nothing in this package performs I/O.
//
// # Recommendation Heuristic
//
// The engine maps (height, weight, ability, conditions) to a board. It is a
// scoring heuristic, not a hydrodynamic model:
//
//	energy    = waveFt * (periodS / 10)
//	clean     = windKts <= 15
//	heavy     = energy >= 6.5 and clean
//	extreme   = waveFt >= 8, or energy >= 7.5 and clean
//
// Wave height is first scaled by the spot's exposure (0.6 for a sheltered
// bay, up to 1.25 for an open headland). Exposure does not touch period or
// wind.
//
// Board type by wave height:
//
//	<3 ft Longboard | <5 ft Midlength | <7 ft Shortboard | else Step-up
//
// Beginners never get a Shortboard or Step-up (both become Midlength).
// Intermediates trade a Step-up for a Shortboard. Without usable conditions
// the board is "All-around".
//
// Volume is a fraction of body weight in liters, per ability. Heavy clean
// surf trims the all-around range; onshore or gusty wind (over 15 kts) adds
// float. The shortboard range is never adjusted.
//
// # NDBC Conventions
//
// Buoy data comes from the NOAA National Data Buoy Center realtime2 text
// feed. Wave height (WVHT) is meters, dominant period (DPD) seconds, wind
// (WSPD, GST) meters per second. "MM" marks a missing value. Conversions to
// feet and knots live in package units.
//
// # Tides
//
// Tide trend compares consecutive hourly heights with a 0.02 m deadband.
// The next high or low is the first later sample at least as high (or low)
// as both of its neighbors.
package domain
