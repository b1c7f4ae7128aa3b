package extract

import (
	"strconv"
	"strings"
	"time"
)

// DateTime finds a "<Month> <day> ... <h>:<mm> am|pm" or "<m>/<d> ... <h>:<mm> am|pm"
// appointment in text. The year is taken from now and the result is in now's
// location. The first pattern family that matches decides: an invalid or stale
// date there is not retried with the numeric form.
//
// A date without a time is never guessed.
func (x *Extractor) DateTime(text string, now time.Time) (time.Time, bool) {
	if m := x.monthTime.FindStringSubmatch(text); m != nil {
		month, ok := x.lex.Month(m[1])
		if !ok {
			return time.Time{}, false
		}
		return x.build(now, month, m[2], m[3], m[4], m[5])
	}
	if m := x.numericTime.FindStringSubmatch(text); m != nil {
		month, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return x.build(now, month, m[2], m[3], m[4], m[5])
	}
	return time.Time{}, false
}

func (x *Extractor) build(now time.Time, month int, dayS, hourS, minS, ampm string) (time.Time, bool) {
	day, err1 := strconv.Atoi(dayS)
	hour, err2 := strconv.Atoi(hourS)
	minute, err3 := strconv.Atoi(minS)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	am := strings.ToLower(ampm) == "a"
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 12 || minute > 59 {
		return time.Time{}, false
	}
	// "0:30 am" is 00:30; "0:30 pm" is nonsense.
	if hour == 0 && !am {
		return time.Time{}, false
	}

	switch strings.ToLower(ampm) {
	case "p":
		if hour != 12 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}

	t := time.Date(now.Year(), time.Month(month), day, hour, minute, 0, 0, now.Location())
	// time.Date normalizes Apr 31 to May 1; treat that as invalid.
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	if t.Before(now.Add(-x.window)) {
		return time.Time{}, false
	}
	return t, true
}
