package response

import (
	"encoding/json"
	"time"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// DateTime renders as "2006-01-02 15:04:05" in local time.
type DateTime time.Time

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Local().Format(dateTimeLayout))
}

func timePtr(t *time.Time) *DateTime {
	if t == nil {
		return nil
	}
	d := DateTime(*t)
	return &d
}
