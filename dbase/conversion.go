package dbase

const (
	hoursFactor   = 3600000
	minutesFactor = 60000
	secondsFactor = 1000
)

// YMD2JD converts year, month and day of the proleptic gregorian calendar to a julian day number.
// julian day number -> days since 01-01-4712 BC
func YMD2JD(y, m, d int) int {
	return d - 32075 +
		1461*(y+4800+(m-14)/12)/4 +
		367*(m-2-(m-14)/12*12)/12 -
		3*((y+4900+(m-14)/12)/100)/4
}

// JD2YMD converts a julian day number to year, month and day (Fliegel and Van Flandern).
func JD2YMD(date int) (int, int, int) {
	l := date + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	y := 4000 * (l + 1) / 1461001
	l = l - 1461*y/4 + 31
	m := 80 * l / 2447
	d := l - 2447*m/80
	l = m / 11
	m = m + 2 - 12*l
	y = 100*(n-49) + y + l
	return y, m, d
}

// JulianDayNumber returns the julian day number of the date.
func JulianDayNumber(d CalendarDate) int32 {
	return int32(YMD2JD(d.Year, d.Month, d.Day))
}

// DateFromJulianDay returns the gregorian date of a julian day number.
func DateFromJulianDay(jdn int32) CalendarDate {
	y, m, d := JD2YMD(int(jdn))
	return CalendarDate{Year: y, Month: m, Day: d}
}

// TimeFromWord splits a time word (milliseconds since midnight) into hours, minutes and seconds.
// Milliseconds are dropped.
func TimeFromWord(word int32) Time {
	w := int(word)
	hours := w / hoursFactor
	w -= hours * hoursFactor
	minutes := w / minutesFactor
	w -= minutes * minutesFactor
	return Time{Hours: hours, Minutes: minutes, Seconds: w / secondsFactor}
}

// Word returns the time as milliseconds since midnight.
func (t Time) Word() int32 {
	return int32(t.Hours*hoursFactor + t.Minutes*minutesFactor + t.Seconds*secondsFactor)
}
