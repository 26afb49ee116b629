package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Minutes decodes a duration sent as a JSON number or a numeric string.
// Fractional values are rounded to the nearest minute; null and "" decode to zero (missing).
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*m = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("duration_minutes: %q is not a number", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("duration_minutes: %q is out of range", s)
	}
	*m = Minutes(math.Round(f))
	return nil
}

// Ticket decodes an optional ticket reference sent as a string or a number.
// Numbers keep their JSON text ("123"); null decodes to empty (no ticket).
type Ticket string

func (t *Ticket) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null":
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Ticket(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("ticket_number: must be a string or number")
	}
	*t = Ticket(n.String())
	return nil
}
