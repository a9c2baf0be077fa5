// Package schedule derives wall-clock departure and arrival instants from
// route schedule data expressed in local terms (weekday + second-of-day +
// duration) and an ISO (week, year) pair.
package schedule

import "time"

// WeekdayDate returns midnight, in loc, of the given weekday within ISO week
// `week` of `year`. Weekday follows time.Weekday numbering (0 = Sunday); ISO
// weeks run Monday through Sunday, so weekday 0 maps to the last day of the
// week.
func WeekdayDate(year, week, weekday int, loc *time.Location) time.Time {
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))

	d := monday.AddDate(0, 0, (week-1)*7+(weekday+6)%7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// Instants computes the departure and arrival instants of a leg. Departure is
// midnight local of the schedule date plus departureSecond; arrival adds the
// duration in absolute time and is re-expressed in the arrival zone for
// display only.
func Instants(year, week, weekday, departureSecond, durationSeconds int, departureLoc, arrivalLoc *time.Location) (time.Time, time.Time) {
	midnight := WeekdayDate(year, week, weekday, departureLoc)
	departure := midnight.Add(time.Duration(departureSecond) * time.Second)
	arrival := departure.Add(time.Duration(durationSeconds) * time.Second).In(arrivalLoc)
	return departure, arrival
}
