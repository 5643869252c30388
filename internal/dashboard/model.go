package dashboard

import "time"

// Window is a half-open reporting period [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

type Stats struct {
	TotalMembers       int `db:"total_members" json:"totalMembers"`
	TotalCoaches       int `db:"total_coaches" json:"totalCoaches"`
	TotalBranches      int `db:"total_branches" json:"totalBranches"`
	TotalLessons       int `db:"total_lessons" json:"totalLessons"`
	TodayReservations  int `db:"today_reservations" json:"todayReservations"`
	WeekReservations   int `db:"week_reservations" json:"weekReservations"`
	MonthReservations  int `db:"month_reservations" json:"monthReservations"`
	ActiveMemberships  int `db:"active_memberships" json:"activeMemberships"`
	OutstandingMinutes int `db:"outstanding_minutes" json:"outstandingMinutes"`
}
