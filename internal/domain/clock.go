package domain

import "time"

// Now is the clock used by constructors and "with" helpers. Tests may
// replace it. Timestamps are kept at microsecond precision, which is what
// the storage file round-trips.
var Now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
