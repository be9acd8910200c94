package attendance

import "errors"

// ErrNoText is returned when recognition produced no usable text for an
// attendance sheet. Attendance documents are scans; there is no native text
// layer to fall back on.
var ErrNoText = errors.New("no recognized text to parse")
