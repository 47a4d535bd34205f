package rules

import "time"

const (
	MonthlyLikes      = 3
	NewUserLikes      = 10
	NewAccountWindow  = 24 * time.Hour
	DefaultPeriodDays = 30
	day               = 24 * time.Hour
)

// LikePolicy holds the tunable quota numbers. Zero fields fall back to defaults.
type LikePolicy struct {
	MonthlyLikes     int
	NewUserLikes     int
	NewAccountWindow time.Duration
	PeriodDays       int
}

func DefaultLikePolicy() LikePolicy {
	return LikePolicy{
		MonthlyLikes:     MonthlyLikes,
		NewUserLikes:     NewUserLikes,
		NewAccountWindow: NewAccountWindow,
		PeriodDays:       DefaultPeriodDays,
	}
}

func (p LikePolicy) normalized() LikePolicy {
	def := DefaultLikePolicy()
	if p.MonthlyLikes <= 0 {
		p.MonthlyLikes = def.MonthlyLikes
	}
	if p.NewUserLikes <= 0 {
		p.NewUserLikes = def.NewUserLikes
	}
	if p.NewAccountWindow <= 0 {
		p.NewAccountWindow = def.NewAccountWindow
	}
	if p.PeriodDays <= 0 {
		p.PeriodDays = def.PeriodDays
	}
	return p
}

// Period is a half-open [Start, End) window anchored at account creation.
type Period struct {
	Index int
	Start time.Time
	End   time.Time
}

func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.Start) && ts.Before(p.End)
}

// CurrentPeriod returns the rolling window containing now. A clock before
// createdAt is treated as period zero.
func CurrentPeriod(createdAt, now time.Time, policy LikePolicy) Period {
	policy = policy.normalized()
	length := time.Duration(policy.PeriodDays) * day

	index := 0
	if elapsed := now.Sub(createdAt); elapsed > 0 {
		index = int(elapsed / length)
	}
	start := createdAt.Add(time.Duration(index) * length)
	return Period{
		Index: index,
		Start: start,
		End:   start.Add(length),
	}
}

// NextRefreshAt is the start of the period after the current one.
func NextRefreshAt(createdAt, now time.Time, policy LikePolicy) time.Time {
	return CurrentPeriod(createdAt, now, policy).End
}

func IsNewAccount(createdAt, now time.Time, policy LikePolicy) bool {
	policy = policy.normalized()
	return now.Sub(createdAt) <= policy.NewAccountWindow
}

func LikeLimit(createdAt, now time.Time, policy LikePolicy) int {
	policy = policy.normalized()
	if IsNewAccount(createdAt, now, policy) {
		return policy.NewUserLikes
	}
	return policy.MonthlyLikes
}

// RemainingLikes never goes below zero.
func RemainingLikes(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
