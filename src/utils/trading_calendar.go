package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether an exchange is trading, using scmhub/calendar
// when it knows the exchange and a weekday session window otherwise.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
	session  session
}

var (
	calendarCache   = map[string]*TradingCalendar{}
	calendarCacheMu sync.Mutex
)

// -----------------------------------------------------------------------------

// MICForSymbol returns the exchange code for a ticker from its suffix.
func MICForSymbol(symbol string) string {
	if i := strings.LastIndex(symbol, "."); i > 0 {
		if mic, ok := exchangeBySuffix[strings.ToUpper(symbol[i:])]; ok {
			return mic
		}
	}
	return defaultMIC
}

// -----------------------------------------------------------------------------

// GetCalendar returns the shared calendar for the exchange symbol trades on.
func GetCalendar(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	calendarCacheMu.Lock()
	defer calendarCacheMu.Unlock()

	if tc, ok := calendarCache[mic]; ok {
		return tc
	}

	var tc *TradingCalendar
	if cal := calendar.GetCalendar(mic); cal != nil {
		tc = &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
	} else {
		tc = newFallbackCalendar(mic)
	}
	calendarCache[mic] = tc
	return tc
}

// -----------------------------------------------------------------------------

func newFallbackCalendar(mic string) *TradingCalendar {
	s, ok := fallbackSessions[mic]
	if !ok {
		s = fallbackSessions[defaultMIC]
	}
	loc, err := time.LoadLocation(s.zone)
	if err != nil {
		loc = time.UTC
	}
	return &TradingCalendar{MIC: mic, Fallback: true, Timezone: loc, session: s}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		sinceMidnight := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
		return sinceMidnight >= tc.session.open && sinceMidnight < tc.session.close
	}

	return tc.Calendar.IsOpen(t)
}
