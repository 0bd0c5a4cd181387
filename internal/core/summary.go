package core

// DailyTotal is the non-archived spend for a single date.
type DailyTotal struct {
	Date  Day
	Total Money
}

// MonthGroup collects the salary entries sharing one month together with
// their precomputed sum. A month may hold any number of entries.
type MonthGroup struct {
	Month    Month
	Salaries []Salary
	Total    Money
}
